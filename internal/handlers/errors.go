package handlers

import (
	"log"
	"net/http"
)

// respondWithError writes a plain-text error to the client and, when err is
// set, logs the detail. logMsg overrides userMsg in the log line so internal
// context never leaks into the response.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		msg := logMsg
		if msg == "" {
			msg = userMsg
		}
		log.Printf("%s: %v", msg, err)
	}
	http.Error(w, userMsg, status)
}
