// Package store persists waypoint graphs keyed by map name.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// ErrNotFound is returned when no graph is stored for a map.
var ErrNotFound = errors.New("store: waypoints not found")

// Store loads and saves waypoint graphs.
type Store interface {
	Load(ctx context.Context, mapName string) (*waypoint.Graph, error)
	Save(ctx context.Context, mapName string, g *waypoint.Graph) error
	Close() error
}

const formatVersion = 1

type graphRecord struct {
	Version int          `msgpack:"v"`
	Map     string       `msgpack:"map"`
	Nodes   []nodeRecord `msgpack:"nodes"`
}

type nodeRecord struct {
	Pos    [3]float64 `msgpack:"p"`
	Weight int        `msgpack:"w"`
	Links  []uint16   `msgpack:"l,omitempty"`
}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode serialises g as zstd-compressed msgpack.
func Encode(mapName string, g *waypoint.Graph) ([]byte, error) {
	rec := graphRecord{Version: formatVersion, Map: mapName, Nodes: make([]nodeRecord, 0, g.Len())}
	for id := 1; id <= g.Len(); id++ {
		w, _ := g.Node(game.NodeID(id))
		n := nodeRecord{Pos: [3]float64{w.Pos.X, w.Pos.Y, w.Pos.Z}, Weight: w.Weight}
		for _, l := range w.Links {
			if l == game.NoNode {
				break
			}
			n.Links = append(n.Links, uint16(l))
		}
		rec.Nodes = append(rec.Nodes, n)
	}
	raw, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("msgpack encode: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

// Decode rebuilds a graph written by Encode. Links to ids outside the graph
// are rejected.
func Decode(data []byte) (*waypoint.Graph, string, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, "", fmt.Errorf("zstd decode: %w", err)
	}
	var rec graphRecord
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return nil, "", fmt.Errorf("msgpack decode: %w", err)
	}
	if rec.Version != formatVersion {
		return nil, "", fmt.Errorf("unsupported waypoint format version %d", rec.Version)
	}
	if len(rec.Nodes) > waypoint.MaxNodes {
		return nil, "", fmt.Errorf("%d waypoints exceeds the limit of %d", len(rec.Nodes), waypoint.MaxNodes)
	}
	g := waypoint.New(nil)
	for _, n := range rec.Nodes {
		id := g.Add(game.V(n.Pos[0], n.Pos[1], n.Pos[2]))
		g.SetWeight(id, n.Weight)
	}
	for i, n := range rec.Nodes {
		from := game.NodeID(i + 1)
		for _, l := range n.Links {
			if !g.Valid(game.NodeID(l)) {
				return nil, "", fmt.Errorf("waypoint %d links to missing waypoint %d", from, l)
			}
			g.Link(from, game.NodeID(l))
		}
	}
	return g, rec.Map, nil
}
