// Package server hosts the Fiber HTTP service: the middleware chain, the
// SiteRegistry that maps Host headers to configured sites, the fiber adapter
// for the send pipeline, and the optional filesystem watcher that resets a
// site's metadata cache. Keep exports narrow and accept explicit dependencies;
// main wires config, logging and routes around it.
package server
