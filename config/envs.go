package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server's network configuration.
type Config struct {
	ProxyIP  string // Proxy IP the gRPC control API listens on
	HostIP   string // Host IP advertised to players
	GrpcPort int    // Port for the gRPC server
	HttpPort int    // Port for the minimap websocket feed

	UdpPort                int // Port for the UDP socket
	UDPBufferSize          int // Size of the buffer for incoming UDP packets (in bytes)
	UDPHeartbeatExpiration int // Expiration time for UDP heartbeat (in milliseconds)
}

// Envs holds the server configuration once Load has run.
var Envs Config

// Load reads the server configuration from the environment, after loading a
// .env file if one is present. Missing or malformed values are fatal.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	Envs = Config{
		ProxyIP:  mustGetEnv("PROXY_IP"),
		HostIP:   mustGetEnv("HOST_IP"),
		GrpcPort: mustGetEnvAsInt("GRPC_PORT"),
		HttpPort: mustGetEnvAsInt("HTTP_PORT"),

		UdpPort:                mustGetEnvAsInt("UDP_PORT"),
		UDPBufferSize:          mustGetEnvAsInt("UDP_BUFFER_SIZE"),
		UDPHeartbeatExpiration: mustGetEnvAsInt("UDP_HEARTBEAT_EXPIRATION"),
	}
	return Envs
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s is not set", ColorGreen, ColorReset, ColorRed, ColorReset, key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
