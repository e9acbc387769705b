package api

import (
	"context"
	"net"
	"testing"

	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeManager struct {
	sessions map[uuid.UUID]uuid.UUID
	frame    codec.Frame
}

func (f *fakeManager) NewSession(playerID uuid.UUID) (uuid.UUID, error) {
	if _, ok := f.sessions[playerID]; ok {
		return uuid.Nil, service.ErrSessionExists
	}
	id := uuid.New()
	f.sessions[playerID] = id
	return id, nil
}

func (f *fakeManager) SessionInfo(playerID uuid.UUID) ([]byte, string, error) {
	if _, ok := f.sessions[playerID]; !ok {
		return nil, "", service.ErrNoSession
	}
	return []byte{0x30, 0x82, 0xff, 0x00}, "10.0.0.7:9000", nil
}

func (f *fakeManager) State(playerID uuid.UUID) (codec.Frame, error) {
	if _, ok := f.sessions[playerID]; !ok {
		return codec.Frame{}, service.ErrNoSession
	}
	return f.frame, nil
}

func (f *fakeManager) StopAll() {}

func startServer(t *testing.T, gsm *fakeManager) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	if err := RegisterNewGameSessionManager(srv, gsm); err != nil {
		t.Fatalf("register: %v", err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestSessionRoundTrip(t *testing.T) {
	gsm := &fakeManager{
		sessions: make(map[uuid.UUID]uuid.UUID),
		frame:    codec.Frame{Version: 7, Level: 2, State: "running", X: -100, Y: 50, Row: 1, Col: 0},
	}
	client := startServer(t, gsm)
	ctx := context.Background()
	player := uuid.New()

	sessionID, err := client.NewSession(ctx, player)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if sessionID != gsm.sessions[player] {
		t.Errorf("session id = %v, want %v", sessionID, gsm.sessions[player])
	}

	key, addr, err := client.SessionInfo(ctx, player)
	if err != nil {
		t.Fatalf("SessionInfo: %v", err)
	}
	if string(key) != string([]byte{0x30, 0x82, 0xff, 0x00}) || addr != "10.0.0.7:9000" {
		t.Errorf("SessionInfo = %x %q", key, addr)
	}

	frame, err := client.State(ctx, player)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if frame != gsm.frame {
		t.Errorf("State = %+v, want %+v", frame, gsm.frame)
	}
}

func TestErrorCodes(t *testing.T) {
	gsm := &fakeManager{sessions: make(map[uuid.UUID]uuid.UUID)}
	client := startServer(t, gsm)
	ctx := context.Background()
	player := uuid.New()

	if _, _, err := client.SessionInfo(ctx, player); status.Code(err) != codes.NotFound {
		t.Errorf("SessionInfo without session: code = %v, want NotFound", status.Code(err))
	}
	if _, err := client.NewSession(ctx, player); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := client.NewSession(ctx, player); status.Code(err) != codes.AlreadyExists {
		t.Errorf("duplicate NewSession: code = %v, want AlreadyExists", status.Code(err))
	}

	bad, _ := structpb.NewStruct(map[string]any{playerIDField: "not-a-uuid"})
	err := client.cc.Invoke(ctx, StateMethod, bad, new(structpb.Struct))
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("bad player id: code = %v, want InvalidArgument", status.Code(err))
	}
}
