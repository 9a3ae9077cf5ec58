// Command mcp-echo-server is a minimal MCP server demonstrating this SDK:
// one "echo" tool, one static resource, served over stdio, length-prefixed
// TCP, or websocket depending on the chosen transport.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gorilla/websocket"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ruaan-deysel/go-mcp-sdk/adminhttp"
	"github.com/ruaan-deysel/go-mcp-sdk/config"
	"github.com/ruaan-deysel/go-mcp-sdk/logger"
	"github.com/ruaan-deysel/go-mcp-sdk/mcp"
	"github.com/ruaan-deysel/go-mcp-sdk/transport"
	"github.com/ruaan-deysel/go-mcp-sdk/transport/wstransport"
)

// Version is the application version, set at build time via ldflags.
var Version = "dev"

var cli struct {
	Transport  string `default:"stdio" enum:"stdio,tcp,websocket" help:"stdio, tcp, or websocket"`
	Addr       string `default:":8090" help:"listen address for tcp/websocket transports"`
	ConfigPath string `default:"" env:"MCP_ECHO_SERVER_CONFIG" help:"path to a server config YAML file"`
	LogsDir    string `default:"/var/log/go-mcp-sdk" help:"directory to store logs"`
	LogLevel   string `default:"info" help:"log level: debug, info, warning, error"`
	Debug      bool   `default:"false" help:"enable debug mode with stdout logging"`
	AdminAddr  string `default:"" help:"if set, serve /healthz, /metrics, /swagger on this address"`
}

type echoArgs struct {
	Message string `json:"message" jsonschema:"required,description=text to echo back"`
}

func buildRegistry() (*mcp.Registry, error) {
	b := mcp.NewRegistryBuilder()
	mcp.TypedTool(b, "echo", mcp.ToolOptions{Description: "echoes the given message back"},
		func(ctx context.Context, handle *mcp.ConnectionHandle, args echoArgs) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{mcp.TextContent(args.Message)}}, nil
		})
	b.Resources(
		func(ctx context.Context) ([]mcp.Resource, error) {
			return []mcp.Resource{{URI: "echo://about", Name: "about", MimeType: "text/plain"}}, nil
		},
		func(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
			if uri != "echo://about" {
				return nil, fmt.Errorf("unknown resource %q", uri)
			}
			return &mcp.ReadResourceResult{Contents: []mcp.ResourceContents{{URI: uri, MimeType: "text/plain", Text: "go-mcp-sdk echo server"}}}, nil
		},
	)
	return b.Build()
}

func cleanupOldLogs(logsDir, baseName string) {
	pattern := filepath.Join(logsDir, baseName+"-*.log")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	for _, f := range files {
		_ = os.Remove(f)
	}
}

func setupLogging(isStdio bool) {
	cleanupOldLogs(cli.LogsDir, "mcp-echo-server")
	switch strings.ToLower(cli.LogLevel) {
	case "debug":
		logger.SetLevel(logger.LevelDebug)
	case "warning", "warn":
		logger.SetLevel(logger.LevelWarning)
	case "error":
		logger.SetLevel(logger.LevelError)
	default:
		logger.SetLevel(logger.LevelInfo)
	}

	if isStdio {
		// STDIO mode: stdout is reserved for the MCP JSON-RPC stream, so logs
		// go to a rotated file plus stderr only.
		fileLogger := &lumberjack.Logger{
			Filename:   filepath.Join(cli.LogsDir, "mcp-echo-server.log"),
			MaxSize:    5,
			MaxBackups: 1,
			MaxAge:     1,
		}
		log.SetOutput(io.MultiWriter(fileLogger, os.Stderr))
		return
	}
	if cli.Debug {
		log.SetOutput(os.Stdout)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		logger.SetLevel(logger.LevelDebug)
		return
	}
	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(cli.LogsDir, "mcp-echo-server.log"),
		MaxSize:    5,
		MaxBackups: 1,
		MaxAge:     1,
	}
	log.SetOutput(io.MultiWriter(fileLogger, os.Stdout))
}

func main() {
	kong.Parse(&cli)

	isStdio := cli.Transport == "stdio"
	setupLogging(isStdio)

	settings := config.DefaultServerSettings()
	if cli.ConfigPath != "" {
		fileCfg, err := config.LoadServerConfig(cli.ConfigPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "WARNING: failed to load config file: %v\n", err)
		}
		fileCfg.ApplyTo(&settings)
	}

	registry, err := buildRegistry()
	if err != nil {
		logger.Fatal("building registry: %v", err)
	}

	opts := mcp.ServerOptions{
		Metrics:    adminhttp.PrometheusMetrics{},
		ServerInfo: mcp.Implementation{Name: "mcp-echo-server", Version: Version},
		OutboxSize: settings.OutboxSize,
	}

	if cli.AdminAddr != "" {
		srv := adminhttp.NewServer(adminhttp.Options{CORSOrigin: settings.CORSOrigin})
		go func() {
			if err := srv.ListenAndServe(cli.AdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server: %v", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch cli.Transport {
	case "stdio":
		serveOne(ctx, transport.NewStdio(transport.FramingLineDelimited), registry, opts, "stdio")
	case "tcp":
		serveTCP(ctx, registry, opts)
	case "websocket":
		serveWebsocket(ctx, registry, opts)
	default:
		logger.Fatal("unknown transport %q", cli.Transport)
	}
}

func serveOne(ctx context.Context, t transport.Transport, registry *mcp.Registry, opts mcp.ServerOptions, sessionID string) {
	opts.SessionID = sessionID
	session := mcp.NewServerSession(t, registry, opts)
	if err := session.Serve(ctx); err != nil {
		logger.Warning("session %s ended: %v", sessionID, err)
	}
}

func serveTCP(ctx context.Context, registry *mcp.Registry, opts mcp.ServerOptions) {
	ln, err := net.Listen("tcp", cli.Addr)
	if err != nil {
		logger.Fatal("listen %s: %v", cli.Addr, err)
	}
	logger.Info("mcp-echo-server listening on %s (tcp)", cli.Addr)
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	id := 0
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		id++
		sessionID := fmt.Sprintf("tcp-%d", id)
		go serveOne(ctx, transport.NewLengthPrefixed(conn, conn, conn), registry, opts, sessionID)
	}
}

func serveWebsocket(ctx context.Context, registry *mcp.Registry, opts mcp.ServerOptions) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	mux := http.NewServeMux()
	id := 0
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade: %v", err)
			return
		}
		id++
		sessionID := fmt.Sprintf("ws-%d", id)
		go serveOne(ctx, wstransport.New(conn), registry, opts, sessionID)
	})
	srv := &http.Server{Addr: cli.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	logger.Info("mcp-echo-server listening on %s (websocket at /ws)", cli.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("serve websocket: %v", err)
	}
}
