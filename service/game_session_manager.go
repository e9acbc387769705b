package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/beka-birhanu/vinom-maze3d/minimap"
	"github.com/beka-birhanu/vinom-maze3d/service/i"
	"github.com/google/uuid"
)

// Record types sent to players over the socket.
const (
	GameStateRecordType = 10
	GameEndedRecordType = 11
)

const defaultTickInterval = 16 * time.Millisecond

// Session manager errors.
var (
	ErrNoSession     = errors.New("no session")
	ErrSessionExists = errors.New("player already has a session")
	ErrInvalidToken  = errors.New("invalid token")
)

// MinimapFeed receives occupied-cell events for a player.
type MinimapFeed interface {
	Publish(playerID uuid.UUID, ev minimap.Event)
	Forget(playerID uuid.UUID)
}

// Broadcaster delivers a payload of the given record type to one player.
type Broadcaster func(playerID uuid.UUID, recordType byte, payload []byte)

type session struct {
	id       uuid.UUID
	game     i.GameServer
	playerID uuid.UUID
	cancel   context.CancelFunc
}

// GameSessionManager runs one Game per player and routes socket records to it.
type GameSessionManager struct {
	sessions        map[uuid.UUID]*session
	playerToSession map[uuid.UUID]uuid.UUID
	config          Config
	logger          i.Logger
	wg              sync.WaitGroup
	sync.RWMutex
}

// Config configures a GameSessionManager.
type Config struct {
	Loader       maze.Loader   // Level source shared by every session.
	Layout       maze.Layout   // World placement.
	Rate         maze.Rate     // Digital input rate.
	TickInterval time.Duration // Simulation step; zero means 16ms.
	FirstLevel   int           // Ordinal every session starts at.
	Encoder      Encoder       // Frame and input codec.
	PublicKey    []byte        // Socket public key handed to players.
	ServerAddr   string        // Socket address handed to players.
	Broadcast    Broadcaster   // Socket delivery.
	Minimap      MinimapFeed   // Optional minimap feed.
	Logger       i.Logger
}

// NewGameSessionManager validates c and returns an empty manager.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.Loader == nil {
		return nil, maze.ErrNoLoader
	}
	if c.Encoder == nil {
		return nil, ErrNoEncoder
	}
	if c.TickInterval == 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.TickInterval < 0 {
		return nil, ErrInvalidTick
	}
	if c.Broadcast == nil {
		c.Broadcast = func(uuid.UUID, byte, []byte) {}
	}

	return &GameSessionManager{
		sessions:        make(map[uuid.UUID]*session),
		playerToSession: make(map[uuid.UUID]uuid.UUID),
		config:          *c,
		logger:          c.Logger,
	}, nil
}

// NewSession starts a maze run for the player.
func (g *GameSessionManager) NewSession(playerID uuid.UUID) (uuid.UUID, error) {
	g.Lock()
	defer g.Unlock()

	if _, ok := g.playerToSession[playerID]; ok {
		return uuid.Nil, ErrSessionExists
	}

	var observer maze.Observer
	if g.config.Minimap != nil {
		observer = &minimapObserver{playerID: playerID, feed: g.config.Minimap}
	}
	game, err := NewGame(GameConfig{
		Loader:     g.config.Loader,
		Layout:     g.config.Layout,
		Rate:       g.config.Rate,
		FirstLevel: g.config.FirstLevel,
		Observer:   observer,
		Encoder:    g.config.Encoder,
		Logger:     g.logger,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating game: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := g.saveSession(playerID, game, cancel)

	g.wg.Add(2)
	go func() {
		defer g.wg.Done()
		game.Start(ctx, g.config.TickInterval)
	}()
	go func() {
		defer g.wg.Done()
		g.listenGameChan(s)
	}()

	g.logger.Info(fmt.Sprintf("started new game %s for player %s", s.id, playerID))
	return s.id, nil
}

func (g *GameSessionManager) saveSession(playerID uuid.UUID, gs i.GameServer, cancel context.CancelFunc) *session {
	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	s := &session{id: sessionID, game: gs, playerID: playerID, cancel: cancel}
	g.sessions[sessionID] = s
	g.playerToSession[playerID] = sessionID
	return s
}

// SessionInfo returns the socket public key and address for a player with a session.
func (g *GameSessionManager) SessionInfo(playerID uuid.UUID) ([]byte, string, error) {
	g.RLock()
	defer g.RUnlock()
	if _, ok := g.playerToSession[playerID]; !ok {
		return nil, "", ErrNoSession
	}
	return g.config.PublicKey, g.config.ServerAddr, nil
}

// State returns the latest frame of the player's session.
func (g *GameSessionManager) State(playerID uuid.UUID) (codec.Frame, error) {
	g.RLock()
	defer g.RUnlock()
	s, ok := g.lookup(playerID)
	if !ok {
		return codec.Frame{}, ErrNoSession
	}
	return s.game.Frame(), nil
}

// Authenticate accepts a socket token made of the player's raw UUID bytes.
func (g *GameSessionManager) Authenticate(token []byte) (uuid.UUID, error) {
	g.RLock()
	defer g.RUnlock()
	id, err := uuid.FromBytes(token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	if _, ok := g.playerToSession[id]; !ok {
		return uuid.Nil, ErrNoSession
	}

	g.logger.Info(fmt.Sprintf("authenticated player: %s", id))
	return id, nil
}

// HandlePlayerRequest forwards a socket record to the player's game.
func (g *GameSessionManager) HandlePlayerRequest(playerID uuid.UUID, actionType byte, payload []byte) {
	g.RLock()
	defer g.RUnlock()
	s, ok := g.lookup(playerID)
	if !ok {
		g.logger.Warning("received request for player without session")
		return
	}

	select {
	case s.game.InputChan() <- append([]byte{actionType}, payload...):
	default:
		g.logger.Warning(fmt.Sprintf("input queue full for player %s", playerID))
	}
}

func (g *GameSessionManager) lookup(playerID uuid.UUID) (*session, bool) {
	sessionID, ok := g.playerToSession[playerID]
	if !ok {
		return nil, false
	}
	s, ok := g.sessions[sessionID]
	return s, ok
}

func (g *GameSessionManager) listenGameChan(s *session) {
	states, ends := s.game.StateChan(), s.game.EndChan()
	for states != nil || ends != nil {
		select {
		case val, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			g.config.Broadcast(s.playerID, GameStateRecordType, val)
		case val, ok := <-ends:
			if !ok {
				ends = nil
				continue
			}
			g.config.Broadcast(s.playerID, GameEndedRecordType, val)
		}
	}

	g.clean(s)
	g.logger.Info(fmt.Sprintf("game %s ended", s.id))
}

func (g *GameSessionManager) clean(s *session) {
	g.Lock()
	defer g.Unlock()
	s.cancel()
	delete(g.playerToSession, s.playerID)
	delete(g.sessions, s.id)
	if g.config.Minimap != nil {
		g.config.Minimap.Forget(s.playerID)
	}
}

// StopAll ends every running session and waits for their final frames to be sent.
func (g *GameSessionManager) StopAll() {
	g.RLock()
	for _, s := range g.sessions {
		s.game.Stop()
	}
	g.RUnlock()

	g.wg.Wait()
}

// minimapObserver turns lifecycle notifications into minimap events.
type minimapObserver struct {
	playerID uuid.UUID
	feed     MinimapFeed
}

func (o *minimapObserver) LevelStarted(l maze.LevelDescriptor) {
	o.feed.Publish(o.playerID, minimap.Event{
		Kind:   minimap.KindLevel,
		Level:  l.Ordinal,
		Row:    l.Start.Row,
		Col:    l.Start.Col,
		Layout: l.Grid.Rows(),
	})
}

func (o *minimapObserver) CellOccupied(level int, c maze.Cell) {
	o.feed.Publish(o.playerID, minimap.Event{Kind: minimap.KindCell, Level: level, Row: c.Row, Col: c.Col})
}

func (o *minimapObserver) LevelCompleted(int) {}

func (o *minimapObserver) SessionEnded() {
	o.feed.Publish(o.playerID, minimap.Event{Kind: minimap.KindEnd})
}
