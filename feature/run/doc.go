// Package run exposes process supervision over HTTP.
//
// It covers starting and stopping a profile's dedicated server, querying its
// run state, streaming live log output, fetching the recent log tail and
// reading the persisted run event history.
//
// Log streaming is server-sent events over a plain HTTP response; a client
// that connects mid-run receives only lines published after it subscribed,
// plus an optional bounded backlog it asks for explicitly.
package run
