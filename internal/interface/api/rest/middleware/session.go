package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory-auth-api/internal/infrastructure/session"
)

const CtxSession = "session"

// Session loads the request session and commits it right before the response
// header goes out, so handlers never deal with cookies themselves.
func Session(store session.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Load(c.Request.Context(), c.Request)
		if err != nil {
			logger.Error("load session failed", zap.Error(err))
			sess = session.New()
		}
		c.Set(CtxSession, sess)

		sw := &sessionWriter{ResponseWriter: c.Writer}
		sw.commit = func() {
			if err := store.Commit(c.Request.Context(), sw.ResponseWriter, sess); err != nil {
				logger.Error("commit session failed", zap.Error(err))
			}
		}
		c.Writer = sw

		c.Next()

		sw.commitOnce()
	}
}

// SessionFrom returns the session loaded by the Session middleware.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(CtxSession); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return session.New()
}

type sessionWriter struct {
	gin.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) commitOnce() {
	if w.committed {
		return
	}
	w.committed = true
	if !w.ResponseWriter.Written() {
		w.commit()
	}
}

func (w *sessionWriter) WriteHeaderNow() {
	w.commitOnce()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.WriteString(s)
}
