package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/ogurasousui/hrms-lite/internal/adapters/http/handler"
	"github.com/ogurasousui/hrms-lite/internal/platform/config"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

var allowedMethods = []string{
	fiber.MethodGet,
	fiber.MethodHead,
	fiber.MethodPost,
	fiber.MethodPut,
	fiber.MethodPatch,
	fiber.MethodDelete,
	fiber.MethodOptions,
}

// Registrar は API グループにルートを登録するハンドラーです。
type Registrar interface {
	Register(r fiber.Router)
}

// Options はサーバーの待ち受け設定です。
type Options struct {
	ListenAddr     string
	GRPCListenAddr string
	CORS           config.CORSConfig
}

// Server は HTTP API と gRPC ヘルスチェックのライフサイクルを管理します。
type Server struct {
	listenAddr string
	app        *fiber.App

	grpcAddr   string
	grpcServer *grpc.Server
	health     *grpchealth.Server
}

// New は HTTP サーバーと、GRPCListenAddr が設定されていれば gRPC ヘルスサーバーを構築します。
func New(opts Options, routes ...Registrar) *Server {
	s := &Server{
		listenAddr: opts.ListenAddr,
		app:        NewApp(opts.CORS, routes...),
		grpcAddr:   opts.GRPCListenAddr,
	}

	if s.grpcAddr != "" {
		s.grpcServer, s.health = newHealthServer()
	}

	return s
}

// NewApp はミドルウェアと /api 配下のルートを登録した fiber アプリを返します。
func NewApp(corsCfg config.CORSConfig, routes ...Registrar) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "hrms-lite",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${locals:requestid} ${method} ${path} ${status} ${latency}\n",
		TimeFormat: time.RFC3339,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsCfg.AllowOrigins, ","),
		AllowMethods: strings.Join(allowedMethods, ","),
		AllowHeaders: "*",
	}))

	api := app.Group("/api")
	for _, r := range routes {
		r.Register(api)
	}

	return app
}

func newHealthServer() (*grpc.Server, *grpchealth.Server) {
	srv := grpc.NewServer()
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return srv, hs
}

// App は内部の fiber アプリを返します。
func (s *Server) App() *fiber.App {
	return s.app
}

// Run はサーバーを起動し、コンテキストがキャンセルされると両方を停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	var grpcLis net.Listener
	if s.grpcServer != nil {
		grpcLis, err = net.Listen("tcp", s.grpcAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.grpcAddr, err)
		}
	}

	return s.serve(ctx, httpLis, grpcLis)
}

func (s *Server) serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	errCh := make(chan error, 2)
	running := 1

	go func() {
		log.Printf("HTTP server listening on %s", httpLis.Addr())
		if err := s.app.Listener(httpLis); err != nil && !errors.Is(err, net.ErrClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
			return
		}
		errCh <- nil
	}()

	if grpcLis != nil {
		running++
		go func() {
			log.Printf("gRPC health server listening on %s", grpcLis.Addr())
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("serve gRPC: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	var firstErr error
	select {
	case <-ctx.Done():
	case firstErr = <-errCh:
		running--
	}

	s.shutdown(httpLis)

	for ; running > 0; running-- {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (s *Server) shutdown(httpLis net.Listener) {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}

	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	// Listener 起動前に停止した場合でも Serve を抜けさせる
	_ = httpLis.Close()
}
