// internal/handlers/ws_codes.go
package handlers

// BadSubprotocolError is the close code sent to clients that connected
// with an unsupported subprotocol. Session failures are rejected with a
// plain HTTP error before the upgrade, so no close code exists for them.
const BadSubprotocolError = 3000
