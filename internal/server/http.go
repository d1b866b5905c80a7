package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// HTTPServer serves DailyQuizService over HTTP/1.1 and cleartext HTTP/2.
type HTTPServer struct {
	*http.Server
	cancel context.CancelFunc
}

func NewHTTPServer(address, allowedOrigin string, handler *DailyQuizHandler) *HTTPServer {
	path, h := NewDailyQuizServiceHandler(handler)
	mux := http.NewServeMux()
	mux.Handle(path, h)

	// Streams are long-lived; cancelling their base context lets Shutdown finish.
	baseCtx, cancel := context.WithCancel(context.Background())
	return &HTTPServer{
		Server: &http.Server{
			Addr:              address,
			Handler:           CORSMiddleware(allowedOrigin, h2c.NewHandler(mux, &http2.Server{})),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext: func(net.Listener) context.Context {
				return baseCtx
			},
		},
		cancel: cancel,
	}
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.Server.Shutdown(ctx)
}
