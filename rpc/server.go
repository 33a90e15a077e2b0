package rpc

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"chatbot/log"

	"github.com/gin-gonic/gin"
)

const (
	HealthCheckUrl = "/healthcheck"
	ChatUrl        = "/chat"
	HistoryUrl     = "/history"
)

const ShutdownTimeout = 5 * time.Second

type Server struct {
	svc       *Service
	host      string
	port      string
	publicDir string
}

func NewServer(svc *Service, host, port, publicDir string) *Server {
	return &Server{svc: svc, host: host, port: port, publicDir: publicDir}
}

// ginWriter forwards gin's access log to our logger, minus health checks.
type ginWriter struct{}

func (*ginWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if strings.Contains(msg, `"`+HealthCheckUrl+`"`) {
		return len(p), nil
	}
	log.Debug(msg)
	return len(p), nil
}

// publicFS hides directories without an index.html so the file server never
// renders a listing.
type publicFS struct {
	fs http.FileSystem
}

func (p publicFS) Open(name string) (http.File, error) {
	f, err := p.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		index, err := p.fs.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, fs.ErrNotExist
		}
		index.Close()
	}
	return f, nil
}

func (srv *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(&ginWriter{}), gin.Recovery())
	r.Use(RequestID())
	r.Use(Cors())
	_ = r.SetTrustedProxies(nil)

	r.GET(HealthCheckUrl, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST(ChatUrl, srv.HandleChat)
	r.GET(HistoryUrl, srv.HandleHistory)

	static := http.FileServer(publicFS{http.Dir(srv.publicDir)})
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: NotFoundMsg})
			return
		}
		static.ServeHTTP(c.Writer, c.Request)
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Start(ctx context.Context) error {
	address := net.JoinHostPort(srv.host, srv.port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	log.Info("start rpc", "address", address)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		log.Info("stopping rpc", "address", address)
		return httpServer.Shutdown(shutdownCtx)
	}
}
