// Package server hosts components over HTTP and WebSocket.
//
// GET / renders the mounted component to a full HTML page. The page opens a
// WebSocket on the live path, which mounts a fresh component for the
// connection and keeps it on a single session goroutine:
//
//	client -> {"hid":"h1","event":"onclick"}
//	server -> {"html":"<label ...>...</label>"}
//
// Handlers run on the session loop, one at a time. Work that finishes on
// another goroutine re-enters the loop with Session.Dispatch. Signals passed
// to Track schedule a re-render whenever they change.
//
//	srv := server.New(server.DefaultConfig(), func(s *server.Session) server.Component {
//	    return newToggle(s)
//	})
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
