package ports

// Session is the per-request key-value store. Values are strings so every
// backend can persist them without type loss.
type Session interface {
	Get(key string) string
	Set(key, value string)
	// Renew issues a new session id keeping the values.
	Renew()
	Destroy()
}
