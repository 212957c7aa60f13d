package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Geocache/internal/game/app"
	"Geocache/internal/game/cachegen"
	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/render"
	"Geocache/internal/game/service/port"
	"Geocache/internal/shared/serverconfig"
	"Geocache/modules/kit/logx"
)

// GameService 本身无状态：会话状态由调用方（SessionActor）持有并串行传入。
type GameService struct {
	indexer      *grid.Indexer
	generator    *cachegen.Generator
	policy       entity.Policy
	maxViewCells int

	journal port.Journal
	ids     port.IDGenerator
	now     func() time.Time
	log     logx.Logger
}

type Option func(*GameService)

func WithJournal(j port.Journal) Option {
	return func(s *GameService) { s.journal = j }
}

func WithIDGenerator(g port.IDGenerator) Option {
	return func(s *GameService) { s.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *GameService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(s *GameService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewGameService(indexer *grid.Indexer, generator *cachegen.Generator, policy entity.Policy, maxViewCells int, opts ...Option) *GameService {
	s := &GameService{
		indexer:      indexer,
		generator:    generator,
		policy:       policy,
		maxViewCells: maxViewCells,
		now:          time.Now,
		log:          logx.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromConfig 按 game 配置段构造服务。
func FromConfig(cfg serverconfig.GameConfig, opts ...Option) (*GameService, error) {
	policy, err := entity.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	tiers := make([]cachegen.Tier, 0, len(cfg.Tiers))
	for _, t := range cfg.Tiers {
		tiers = append(tiers, cachegen.Tier{UpTo: t.UpTo, Value: t.Value})
	}
	gen, err := cachegen.New(cfg.SpawnProbability, tiers)
	if err != nil {
		return nil, fmt.Errorf("build cache generator: %w", err)
	}
	if !(cfg.TileDegrees > 0) {
		return nil, fmt.Errorf("tile_degrees must be positive, got %v", cfg.TileDegrees)
	}
	idx := grid.NewIndexer(cfg.OriginLat, cfg.OriginLng, cfg.TileDegrees)
	return NewGameService(idx, gen, policy, cfg.MaxViewCells, opts...), nil
}

func (s *GameService) Indexer() *grid.Indexer {
	return s.indexer
}

func (s *GameService) Policy() entity.Policy {
	return s.policy
}

// NewSession 创建空背包的新会话。
func (s *GameService) NewSession(sid entity.SessionID) *entity.Session {
	return entity.NewSession(sid, s.policy, s.generator)
}

// Observe 为视口内每个格子 get-or-generate。零面积或 NaN 视口返回空视图，
// 越出经纬度范围返回 ErrViewportInvalid，超过 max_view_cells 返回 ErrViewportTooLarge，
// 两种情况都不生成任何格子。
func (s *GameService) Observe(sess *entity.Session, vp grid.Viewport) (*View, error) {
	if vp.Valid() && !vp.InRange() {
		return nil, app.ErrViewportInvalid.WithReason(app.ReasonLatLng)
	}
	limit := s.maxViewCells
	if limit <= 0 || limit > grid.MaxEnumerate {
		limit = grid.MaxEnumerate
	}
	if n := s.indexer.CountInView(vp); n > limit {
		return nil, app.ErrViewportTooLarge.WithDataMap(map[string]any{
			"cells": n,
			"max":   limit,
		})
	}
	caches := sess.Observe(s.indexer.CellsInView(vp))
	cells := make([]CellView, 0, len(caches))
	for _, c := range caches {
		cells = append(cells, s.cacheView(c))
	}
	return &View{
		Viewport:  vp,
		Cells:     cells,
		Inventory: toInventoryView(sess.Inventory()),
	}, nil
}

// Exchange 执行交换，推送显示变化并写审计记录。
// 被拒绝时同样写审计、不推送，并把未变化的状态和 ErrInventoryFull 一起返回。
func (s *GameService) Exchange(ctx context.Context, sess *entity.Session, sink render.Sink, cell grid.Cell) (*ExchangeView, error) {
	out, err := sess.Exchange(cell)
	s.record(ctx, sess, out)
	if err == nil {
		render.Publish(sink, out)
	}

	c, _ := sess.Registry().Lookup(cell)
	return &ExchangeView{
		Cell:      s.cacheView(c),
		Inventory: toInventoryView(out.InventoryAfter),
		Rejected:  out.Rejected,
	}, err
}

func (s *GameService) Inventory(sess *entity.Session) InventoryView {
	return toInventoryView(sess.Inventory())
}

// Locate 返回包含该点的格子；如果会话里已有该格子的记录就带上当前内容。
func (s *GameService) Locate(sess *entity.Session, lat, lng float64) (*LocateView, error) {
	if !grid.InRange(lat, lng) {
		return nil, app.ErrViewportInvalid.WithReason(app.ReasonLatLng)
	}
	cell := s.indexer.CellAt(lat, lng)
	view := s.cellView(cell, entity.Empty(), false)
	if sess != nil {
		if c, ok := sess.Registry().Lookup(cell); ok {
			view = s.cacheView(c)
		}
	}
	return &LocateView{Lat: lat, Lng: lng, Cell: view}, nil
}

func (s *GameService) record(ctx context.Context, sess *entity.Session, out entity.Outcome) {
	if s.journal == nil {
		return
	}
	var id int64
	if s.ids != nil {
		id = s.ids.NextID()
	}
	ev := entity.NewExchangeEvent(id, sess.ID(), sess.Policy(), out, s.now())
	if err := s.journal.Record(ev); err != nil {
		s.log.WithContext(ctx).Warn("journal record failed",
			zap.String("sid", string(sess.ID())),
			zap.Stringer("cell", out.Cell),
			zap.Error(err),
		)
	}
}
