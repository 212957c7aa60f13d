package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"Geocache/internal/game/actors"
	"Geocache/internal/game/app"
	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/render"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/actor/messages"
)

const defaultAskTimeout = 3 * time.Second

// Runtime 是接口层访问会话 actor 的唯一入口：把同步调用转成 RequestFuture。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(svc *service.GameService, sinks render.Factory, idleTimeout, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(svc, sinks, idleTimeout)
	}, protoactor.WithSupervisor(actors.StopOnFailure()))
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) Observe(ctx context.Context, sid entity.SessionID, vp grid.Viewport) (*service.View, error) {
	msg := &messages.GObserve{
		GameBaseMessage: messages.NewGameBase(ctx, string(sid)),
		South:           vp.South,
		North:           vp.North,
		West:            vp.West,
		East:            vp.East,
	}
	return ask[*service.View](r, ctx, msg)
}

func (r *Runtime) Exchange(ctx context.Context, sid entity.SessionID, cell grid.Cell) (*service.ExchangeView, error) {
	msg := &messages.GExchange{
		GameBaseMessage: messages.NewGameBase(ctx, string(sid)),
		I:               cell.I,
		J:               cell.J,
	}
	return ask[*service.ExchangeView](r, ctx, msg)
}

func (r *Runtime) Inventory(ctx context.Context, sid entity.SessionID) (service.InventoryView, error) {
	msg := &messages.GInventory{GameBaseMessage: messages.NewGameBase(ctx, string(sid))}
	return ask[service.InventoryView](r, ctx, msg)
}

func (r *Runtime) Locate(ctx context.Context, sid entity.SessionID, lat, lng float64) (*service.LocateView, error) {
	msg := &messages.GLocate{
		GameBaseMessage: messages.NewGameBase(ctx, string(sid)),
		Lat:             lat,
		Lng:             lng,
	}
	return ask[*service.LocateView](r, ctx, msg)
}

// Close 结束会话；会话不存在也返回成功。
func (r *Runtime) Close(ctx context.Context, sid entity.SessionID) error {
	msg := &messages.GClose{GameBaseMessage: messages.NewGameBase(ctx, string(sid))}
	_, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	return err
}

// Sessions 返回当前存活的会话数。
func (r *Runtime) Sessions(ctx context.Context) (int, error) {
	res, err := r.request(r.manager, &actors.SessionCount{}, r.timeoutFromContext(ctx))
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

// ask 解开 Reply；Err 非空时 Body 仍原样返回。
func ask[T any](r *Runtime, ctx context.Context, msg messages.GameMessage) (T, error) {
	var zero T
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	reply, ok := res.(*messages.Reply)
	if !ok || reply == nil {
		return zero, app.ErrSessionUnavailable.WithData("reason", "unexpected reply")
	}
	body, _ := reply.Body.(T)
	return body, reply.Err
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, app.ErrSessionUnavailable.WithData("reason", "actor runtime 未初始化")
	}
	if pid == nil {
		return nil, app.ErrSessionUnavailable.WithData("reason", "actor pid 为空")
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		reason := app.ReasonActorStopped
		if errors.Is(err, protoactor.ErrTimeout) {
			reason = app.ReasonActorTimeout
		}
		return nil, app.ErrSessionUnavailable.WithReason(reason).WithCause(err)
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}
