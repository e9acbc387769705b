package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/udp-socket-manager/crypto"
	udppb "github.com/beka-birhanu/udp-socket-manager/encoding"
	udpsocket "github.com/beka-birhanu/udp-socket-manager/socket"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	socket_i "github.com/beka-birhanu/vinom-common/interfaces/socket"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-maze3d/api"
	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/beka-birhanu/vinom-maze3d/config"
	"github.com/beka-birhanu/vinom-maze3d/level"
	"github.com/beka-birhanu/vinom-maze3d/minimap"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/google/uuid"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	grpcConnListener   net.Listener
	grpcServer         *grpc.Server
	httpServer         *http.Server
	udpSocketManager   socket_i.ServerSocketManager
	gameSessionManager *service.GameSessionManager
	minimapHub         *minimap.Hub
	levelSource        level.Source
	levelCloser        io.Closer
	gameConfig         config.Game
	appLogger          general_i.Logger
)

func initGameConfig() {
	g, err := config.LoadGame()
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading game configuration: %v", err))
		os.Exit(1)
	}
	gameConfig = g
	appLogger.Info(fmt.Sprintf("Game configuration loaded, levels from %s", g.LevelSource))
}

func initLevelSource(ctx context.Context) {
	levelLogger, err := logger.New("LEVELS", config.ColorYellow, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating level source logger: %v", err))
		os.Exit(1)
	}

	switch gameConfig.LevelSource {
	case config.SourceEmbedded:
		src, err := level.Embedded()
		if err != nil {
			levelLogger.Error(fmt.Sprintf("Opening embedded levels: %v", err))
			os.Exit(1)
		}
		levelSource = src
	case config.SourceFile:
		levelSource = level.NewDirSource(gameConfig.LevelDir, gameConfig.LevelCount)
	case config.SourceSQL:
		src, err := level.OpenSQL(ctx, gameConfig.DBDriver, gameConfig.DatabaseURL)
		if err != nil {
			levelLogger.Error(fmt.Sprintf("Opening level database: %v", err))
			os.Exit(1)
		}
		if err := src.Migrate(ctx); err != nil {
			levelLogger.Error(fmt.Sprintf("Migrating level database: %v", err))
			os.Exit(1)
		}
		seedLevels(ctx, src, levelLogger)
		levelSource = src
		levelCloser = src
	}

	count, err := levelSource.Count(ctx)
	if err != nil {
		levelLogger.Error(fmt.Sprintf("Counting levels: %v", err))
		os.Exit(1)
	}
	levelLogger.Info(fmt.Sprintf("%d levels available", count))
}

// seedLevels imports the embedded levels into an empty database.
func seedLevels(ctx context.Context, src *level.SQLSource, levelLogger general_i.Logger) {
	count, err := src.Count(ctx)
	if err != nil || count > 0 {
		return
	}
	embedded, err := level.Embedded()
	if err != nil {
		levelLogger.Warning(fmt.Sprintf("Opening embedded levels for seeding: %v", err))
		return
	}
	n, err := src.Import(ctx, embedded)
	if err != nil {
		levelLogger.Warning(fmt.Sprintf("Seeding level database: %v", err))
		return
	}
	levelLogger.Info(fmt.Sprintf("Seeded %d levels into an empty database", n))
}

func initUDPSocketManager() {
	serverAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.UdpPort))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Resolving server address: %v", err))
		os.Exit(1)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Generating RSA key: %v", err))
		os.Exit(1)
	}

	rsaEnc := crypto.NewRSA(privateKey)

	serverLogger, err := logger.New("SERVER-SOCKET", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating UDP socket manager logger: %v", err))
		os.Exit(1)
	}
	server, err := udpsocket.NewServerSocketManager(
		udpsocket.ServerConfig{
			ListenAddr:  serverAddr,
			AsymmCrypto: rsaEnc,
			SymmCrypto:  crypto.NewAESCBC(),
			Encoder:     &udppb.Protobuf{},
			HMAC:        &crypto.HMAC{},
			Logger:      serverLogger,
		},
		udpsocket.ServerWithReadBufferSize(config.Envs.UDPBufferSize),
		udpsocket.ServerWithHeartbeatExpiration(time.Duration(config.Envs.UDPHeartbeatExpiration)*time.Millisecond),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating server UDP socket manager: %v", err))
		os.Exit(1)
	}

	udpSocketManager = server
	appLogger.Info("UDP Socket Manager initialized")
}

func initMinimap() {
	minimapLogger, err := logger.New("MINIMAP", config.ColorPurple, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating minimap logger: %v", err))
		os.Exit(1)
	}
	minimapHub = minimap.NewHub(minimapLogger)
	httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%v", config.Envs.ProxyIP, config.Envs.HttpPort),
		Handler:           minimap.NewRouter(minimapHub),
		ReadHeaderTimeout: 5 * time.Second,
	}
	appLogger.Info("Minimap feed initialized")
}

// broadcast delivers one record to a single player over the socket.
// clientRecord reports whether records of this type go out to clients.
func clientRecord(recordType byte) bool {
	return recordType == service.GameStateRecordType || recordType == service.GameEndedRecordType
}

func broadcast(playerID uuid.UUID, recordType byte, payload []byte) {
	if !clientRecord(recordType) {
		return
	}
	udpSocketManager.BroadcastToClients([]uuid.UUID{playerID}, recordType, payload)
}

func initGameSessionManager() {
	gameLogger, err := logger.New("GAME-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game manager logger: %v", err))
		os.Exit(1)
	}
	manager, err := service.NewGameSessionManager(
		&service.Config{
			Loader:       levelSource,
			Layout:       gameConfig.Layout(),
			Rate:         gameConfig.Rate(),
			TickInterval: gameConfig.TickInterval,
			FirstLevel:   gameConfig.FirstLevel,
			Encoder:      codec.Protobuf{},
			PublicKey:    udpSocketManager.GetPublicKey(),
			ServerAddr:   udpSocketManager.GetAddr(),
			Broadcast:    broadcast,
			Minimap:      minimapHub,
			Logger:       gameLogger,
		},
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager: %v", err))
		os.Exit(1)
	}

	udpSocketManager.SetClientRequestHandler(manager.HandlePlayerRequest)
	udpSocketManager.SetClientAuthenticator(manager)
	gameSessionManager = manager
	appLogger.Info("Game Session Manager initialized")
}

func initSessionManagerController() {
	grpcServer = grpc.NewServer()
	err := api.RegisterNewGameSessionManager(grpcServer, gameSessionManager)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating and Registering session manager controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session controller initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.Load()
	initGameConfig()
	initLevelSource(ctx)
	initUDPSocketManager()
	initMinimap()
	initGameSessionManager()
	initSessionManagerController()

	defer func() {
		gameSessionManager.StopAll()
		udpSocketManager.Stop()
		if levelCloser != nil {
			_ = levelCloser.Close()
		}
	}()

	go udpSocketManager.Serve()
	appLogger.Info("UDP Socket Manager started serving")

	go func() {
		appLogger.Info(fmt.Sprintf("Serving minimap at: %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Serving minimap: %v", err))
			stop()
		}
	}()

	var err error
	addr := fmt.Sprintf("%s:%v", config.Envs.ProxyIP, config.Envs.GrpcPort)
	grpcConnListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}

	go func() {
		appLogger.Info(fmt.Sprintf("Serving gRPC at: %s", addr))
		if err := grpcServer.Serve(grpcConnListener); err != nil {
			appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warning(fmt.Sprintf("Shutting down minimap: %v", err))
	}
}
