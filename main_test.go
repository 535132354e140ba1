package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseCLIFlagsPriority(t *testing.T) {
	t.Setenv("STATIC_HUB_CONFIG", "/tmp/env.toml")

	opts, err := parseCLIFlags([]string{})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/env.toml" {
		t.Fatalf("应优先使用环境变量，得到 %s", opts.configPath)
	}

	opts, err = parseCLIFlags([]string{"--config", "/tmp/flag.toml"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/flag.toml" {
		t.Fatalf("flag 应高于环境变量，得到 %s", opts.configPath)
	}
}

func TestRunCheckConfigSuccess(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "valid.toml"), checkOnly: true})
	if code != 0 {
		t.Fatalf("期望退出码 0，得到 %d", code)
	}
}

func TestRunCheckConfigFailure(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "missing.toml"), checkOnly: true})
	if code == 0 {
		t.Fatalf("无效配置应返回非零退出码")
	}
}

func TestRunVersionOutput(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{showVersion: true})
	if code != 0 {
		t.Fatalf("version 模式应成功退出，得到 %d", code)
	}
	if !strings.Contains(stdOut.(*bytes.Buffer).String(), "static-hub") {
		t.Fatalf("version 输出应包含 static-hub 标识")
	}
}

func TestParseCLIFlagsDefaultsAndErrors(t *testing.T) {
	t.Setenv("STATIC_HUB_CONFIG", "")

	opts, err := parseCLIFlags([]string{"-check-config"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "config.toml" || !opts.checkOnly {
		t.Fatalf("未指定路径时应回退 config.toml，得到 %+v", opts)
	}

	if _, err := parseCLIFlags([]string{"--unknown"}); err == nil {
		t.Fatalf("未知参数应返回错误")
	}
}

func TestRunFailsWhenConfigMissing(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: "/nonexistent/static-hub.toml", checkOnly: true})
	if code != 1 {
		t.Fatalf("配置文件不存在应返回 1，得到 %d", code)
	}
	if !strings.Contains(stdErrBuffer().String(), "加载配置失败") {
		t.Fatalf("stderr 应包含错误原因: %s", stdErrBuffer().String())
	}
}
