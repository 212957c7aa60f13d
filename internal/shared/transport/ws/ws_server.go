package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Geocache/internal/shared/utils"
	"Geocache/modules/kit/logx"
)

const (
	defaultOutBuffer = 256
	writeWait        = 10 * time.Second
)

// outFrame 二选一：待编码的响应，或已编码好的握手帧。
type outFrame struct {
	resp *WsMsgResp
	raw  []byte
}

// WsServer 是一条 ws 连接：一个读协程分发请求，一个写协程串行写帧。
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	codec    Codec
	outChan  chan outFrame
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, codec Codec, outBuffer int, l logx.Logger) *WsServer {
	if outBuffer <= 0 {
		outBuffer = defaultOutBuffer
	}
	if l == nil {
		l = logx.NewNop()
	}
	return &WsServer{
		conn:     wsConn,
		codec:    codec,
		outChan:  make(chan outFrame, outBuffer),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 主动推送。连接已关闭或发送队列满时丢弃，不阻塞调用方（actor 也会调用）。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(msg *WsMsgResp) {
	s.enqueueFrame(outFrame{resp: msg})
}

func (s *WsServer) enqueueRaw(frame []byte) {
	s.enqueueFrame(outFrame{raw: frame})
}

func (s *WsServer) enqueueFrame(f outFrame) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.outChan <- f:
	case <-s.done:
	default:
		s.log.Warn("ws_server out queue full, drop frame", zap.String("addr", s.Addr()))
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) secretKey() string {
	key, _ := s.GetProperty(SecretKey).(string)
	return key
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}

		reqBody, err := s.codec.Decode(data, s.secretKey())
		if err != nil {
			s.log.Warn("ws_server decode frame", zap.Error(err))
			if s.codec.NeedSecret() {
				// 密钥不一致时重新握手
				s.handshake()
			}
			continue
		}

		req := WsMsgReq{Body: reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws_server read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.Dispatch(&req, &resp)
		}
		s.enqueue(&resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case f := <-s.outChan:
			if err := s.write(f); err != nil {
				s.log.Warn("ws_server write", zap.Error(err))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(f outFrame) error {
	frame := f.raw
	if f.resp != nil {
		var err error
		frame, err = s.codec.Encode(f.resp.Body, s.secretKey())
		if err != nil {
			s.log.Error("ws_server encode frame", zap.String("name", f.resp.Body.Name), zap.Error(err))
			return nil
		}
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	// 压缩后是二进制字节流，必须走 BinaryMessage
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// handshake 下发本连接的密钥；不加密时密钥为空，客户端据此只做压缩。
// 握手帧也走写队列，保证它排在用新密钥加密的帧之前。
func (s *WsServer) handshake() {
	key := ""
	if s.codec.NeedSecret() {
		key = s.secretKey()
		if key == "" {
			key = utils.RandSeq(16)
			s.SetProperty(SecretKey, key)
		}
	}
	frame, err := s.codec.EncodeHandshake(key)
	if err != nil {
		s.log.Error("ws_server handshake encode", zap.Error(err))
		return
	}
	s.enqueueRaw(frame)
}
