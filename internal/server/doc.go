// Package server serves the contact form to browsers.
//
// Every page load gets a form rendered from a profile. The page then opens a
// WebSocket and the server keeps one form.Session per connection. Each
// change is validated as it is typed. State changes of the session's
// submission controller are pushed back as JSON messages. Browsers without
// JavaScript fall back to a plain POST that runs one submission and
// re-renders the page.
//
// # Routes
//
//	GET  /                    form page for the default profile
//	GET  /forms/{profile}     form page for a named profile
//	POST /forms/{profile}     non-JavaScript submission
//	GET  /forms/{profile}/ws  live form session
//	GET  /healthz             liveness probe
//	GET  /metrics             Prometheus metrics
//
// # WebSocket Messages
//
// Client to server:
//
//	{"type":"change","field":"emailInput","value":"a@b.c"}
//	{"type":"submit"}
//	{"type":"dismiss"}
//
// Server to client:
//
//	{"type":"session","session_id":"...","profile":"classic"}
//	{"type":"field","field":"emailInput","error":""}
//	{"type":"state","state":"pending"}
//	{"type":"alert","message":"Fill all the Fields Before submitting","duration_ms":1000}
//	{"type":"errors","errors":{"textInput":"Text Input is required"}}
//	{"type":"failure","message":"Form submission failed. Please try again."}
//	{"type":"confirmation","title":"...","rows":[{"name":"...","label":"...","value":"..."}]}
//	{"type":"error","message":"invalid option: ..."}
//
// Values are echoed in the confirmation exactly as submitted. The page
// escapes them on output. Values that carry markup are logged and counted in
// contactform_markup_values_total.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Host:           "127.0.0.1",
//	    Port:           8080,
//	    DefaultProfile: "classic",
//	    Session:        settings.SessionOptions(),
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start() // blocks until SIGINT/SIGTERM
//
// # Shutdown
//
// Shutdown closes every WebSocket and its session, which cancels any
// pending simulated submission.
package server
