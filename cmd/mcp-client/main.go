// Command mcp-client is a small interactive/scripted MCP host: it connects
// to a server named in a client profile and either calls one tool (when a
// tool is named) or lists its tools.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/websocket"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ruaan-deysel/go-mcp-sdk/config"
	"github.com/ruaan-deysel/go-mcp-sdk/logger"
	"github.com/ruaan-deysel/go-mcp-sdk/mcp"
	"github.com/ruaan-deysel/go-mcp-sdk/transport"
	"github.com/ruaan-deysel/go-mcp-sdk/transport/wstransport"
)

// Version is the application version, set at build time via ldflags.
var Version = "dev"

var cli struct {
	ProfilePath string        `default:"" env:"MCP_CLIENT_PROFILE" help:"path to a client profile INI file"`
	Server      string        `arg:"" help:"server name from the profile to connect to"`
	CallTool    string        `default:"" help:"if set, call this tool with --args and print the result"`
	Args        string        `default:"{}" help:"JSON object of arguments for --call-tool"`
	Timeout     time.Duration `default:"10s" help:"connect timeout"`
	LogsDir     string        `default:"/var/log/go-mcp-sdk" help:"directory to store logs"`
	LogLevel    string        `default:"info" help:"log level: debug, info, warning, error"`
	Debug       bool          `default:"false" help:"enable debug mode with stdout logging"`
}

func setupLogging() {
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
	if cli.Debug {
		log.SetOutput(os.Stdout)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		logger.SetLevel(logger.LevelDebug)
		return
	}
	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(cli.LogsDir, "mcp-client.log"),
		MaxSize:    5,
		MaxBackups: 1,
		MaxAge:     1,
	}
	log.SetOutput(io.MultiWriter(fileLogger, os.Stderr))
}

func dial(ctx context.Context, profile config.ServerProfile) (transport.Transport, error) {
	switch strings.ToLower(profile.Transport) {
	case "stdio":
		return nil, fmt.Errorf("launching a stdio child process is not implemented by this demo client; connect an already-running stdio server directly instead")
	case "websocket":
		u, err := url.Parse(profile.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing server url: %w", err)
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("dialing %s: %w", u.String(), err)
		}
		return wstransport.New(conn), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q for server %q", profile.Transport, profile.Name)
	}
}

func main() {
	kong.Parse(&cli)
	setupLogging()

	profilePath := cli.ProfilePath
	if profilePath == "" {
		profilePath = config.DefaultClientProfilePath
	}
	profile, err := config.LoadClientProfile(profilePath)
	if err != nil {
		logger.Fatal("loading client profile: %v", err)
	}
	server, ok := profile.Server(cli.Server)
	if !ok {
		logger.Fatal("no server named %q in profile", cli.Server)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, cli.Timeout)
	t, err := dial(dialCtx, server)
	dialCancel()
	if err != nil {
		logger.Fatal("connecting to %q: %v", cli.Server, err)
	}

	client, err := mcp.Connect(ctx, t, mcp.ClientOptions{
		ClientInfo: mcp.Implementation{Name: "mcp-client", Version: Version},
	})
	if err != nil {
		logger.Fatal("handshake with %q: %v", cli.Server, err)
	}
	defer func() { _ = client.Close() }()

	info := client.ServerInfo()
	logger.Info("connected to %s %s", info.Name, info.Version)

	if cli.CallTool == "" {
		tools, err := client.ListTools(ctx)
		if err != nil {
			logger.Fatal("listing tools: %v", err)
		}
		for _, tool := range tools {
			fmt.Printf("%s: %s\n", tool.Name, tool.Description)
		}
		return
	}

	var args any
	if err := json.Unmarshal([]byte(cli.Args), &args); err != nil {
		logger.Fatal("parsing --args as JSON: %v", err)
	}
	result, err := client.CallTool(ctx, cli.CallTool, args)
	if err != nil {
		logger.Fatal("calling tool %q: %v", cli.CallTool, err)
	}
	for _, content := range result.Content {
		if content.Type == mcp.ContentText {
			fmt.Println(content.Text)
		}
	}
	if result.IsError {
		os.Exit(1)
	}
}
