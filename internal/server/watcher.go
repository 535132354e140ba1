package server

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// StartWatcher watches the roots of every site with Watch enabled and resets
// that site's metadata cache on any change below its root. It returns a nil
// stop function when no site asks for watching.
func StartWatcher(logger *logrus.Logger, registry *SiteRegistry) (stop func(), err error) {
	var watched []*SiteRoute
	for _, route := range registry.List() {
		if route.Config.Watch {
			watched = append(watched, route)
		}
	}
	if len(watched) == 0 {
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, route := range watched {
		watchRecursive(logger, w, route.Options.Root)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				handleEvent(logger, w, watched, event)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.WithFields(logrus.Fields{"action": "watch"}).WithError(err).Warn("watcher_error")
			}
		}
	}()

	return func() { _ = w.Close() }, nil
}

// watchRecursive adds dir and every directory beneath it. Hitting the inotify
// limit stops the walk; changes in unwatched directories are then missed.
func watchRecursive(logger *logrus.Logger, w *fsnotify.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.WithFields(logrus.Fields{"action": "watch", "path": path}).WithError(err).Warn("watch_skip")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			fields := logrus.Fields{"action": "watch", "path": path}
			if errors.Is(err, syscall.ENOSPC) {
				logger.WithFields(fields).Error("inotify watch limit reached, raise fs.inotify.max_user_watches")
				return filepath.SkipAll
			}
			logger.WithFields(fields).WithError(err).Warn("watch_add_failed")
		}
		return nil
	})
}

func handleEvent(logger *logrus.Logger, w *fsnotify.Watcher, routes []*SiteRoute, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			watchRecursive(logger, w, event.Name)
		}
	}

	for _, route := range routes {
		if !withinRoot(route.Options.Root, event.Name) {
			continue
		}
		route.Cache.Reset()
		logger.WithFields(logrus.Fields{
			"action": "cache_reset",
			"site":   route.Config.Name,
			"path":   event.Name,
			"op":     event.Op.String(),
		}).Debug("metadata cache reset")
	}
}

func withinRoot(root, name string) bool {
	root = filepath.Clean(root)
	name = filepath.Clean(name)
	return name == root || strings.HasPrefix(name, root+string(filepath.Separator))
}
