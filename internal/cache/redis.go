// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Action types written to the stream.
const (
	ActionGameStart     = "game_start"
	ActionPlayerMove    = "player_move"
	ActionPlayerDiscard = "player_discard"
	ActionGameEnd       = "game_end"
)

// DealerActor is the actor id of records the dealer writes itself.
const DealerActor = -1

// GameActionRecord is one entry of a game's action history.
type GameActionRecord struct {
	GameID        uuid.UUID      `json:"gameId"`
	ActionIndex   int            `json:"actionIndex"`
	ActorID       int            `json:"actorId"`
	ActionType    string         `json:"actionType"`
	ActionPayload map[string]any `json:"actionPayload"`
	Timestamp     int64          `json:"timestamp"` // unix ms
}

// Publisher appends action records to a Redis stream.
type Publisher struct {
	rdb    *redis.Client
	stream string
}

// NewPublisher wraps an existing client.
func NewPublisher(rdb *redis.Client, stream string) *Publisher {
	return &Publisher{rdb: rdb, stream: stream}
}

// Connect parses url, opens a client and checks it with PING.
func Connect(ctx context.Context, url, stream string) (*Publisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewPublisher(rdb, stream), nil
}

// Publish appends rec to the stream.
func (p *Publisher) Publish(ctx context.Context, rec GameActionRecord) error {
	values, err := recordValues(rec)
	if err != nil {
		return err
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{Stream: p.stream, Values: values}).Err()
}

// History reads every record of one game back from the stream, oldest first.
func (p *Publisher) History(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	msgs, err := p.rdb.XRange(ctx, p.stream, "-", "+").Result()
	if err != nil {
		return nil, err
	}
	var out []GameActionRecord
	for _, m := range msgs {
		rec, err := parseValues(m.Values)
		if err != nil {
			return nil, fmt.Errorf("stream entry %s: %w", m.ID, err)
		}
		if rec.GameID == gameID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Close releases the client.
func (p *Publisher) Close() error { return p.rdb.Close() }

func recordValues(rec GameActionRecord) (map[string]any, error) {
	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return nil, fmt.Errorf("action payload: %w", err)
	}
	return map[string]any{
		"game_id": rec.GameID.String(),
		"index":   rec.ActionIndex,
		"actor":   rec.ActorID,
		"type":    rec.ActionType,
		"payload": string(payload),
		"ts":      rec.Timestamp,
	}, nil
}

func parseValues(v map[string]any) (GameActionRecord, error) {
	str := func(k string) string { s, _ := v[k].(string); return s }
	num := func(k string) (int64, error) { return strconv.ParseInt(str(k), 10, 64) }

	var rec GameActionRecord
	id, err := uuid.Parse(str("game_id"))
	if err != nil {
		return rec, err
	}
	idx, err := num("index")
	if err != nil {
		return rec, err
	}
	actor, err := num("actor")
	if err != nil {
		return rec, err
	}
	ts, err := num("ts")
	if err != nil {
		return rec, err
	}
	rec = GameActionRecord{
		GameID:      id,
		ActionIndex: int(idx),
		ActorID:     int(actor),
		ActionType:  str("type"),
		Timestamp:   ts,
	}
	if err := json.Unmarshal([]byte(str("payload")), &rec.ActionPayload); err != nil {
		return rec, err
	}
	return rec, nil
}
