package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger emits one structured line per request after the handler returns.
// Handler errors raise the level to error; the echo error handler still
// formats the response.
func Logger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			began := time.Now()
			err := next(c)

			req, res := c.Request(), c.Response()
			evt := log.Info()
			if err != nil {
				evt = log.Error().Err(err)
			}
			rid, _ := c.Get("request_id").(string)
			evt.Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("elapsed", time.Since(began)).
				Str("remote_ip", c.RealIP()).
				Msg("http request")
			return err
		}
	}
}
