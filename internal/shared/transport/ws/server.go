package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Geocache/modules/kit/logx"
)

type Server struct {
	router    *Router
	codec     Codec
	outBuffer int
	upgrader  websocket.Upgrader
	log       logx.Logger
}

func NewServer(r *Router, codec Codec, outBuffer int, l logx.Logger) *Server {
	if l == nil {
		l = logx.NewNop()
	}
	return &Server{
		router:    r,
		codec:     codec,
		outBuffer: outBuffer,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.codec, s.outBuffer, s.log)
	wsServer.Router(s.router)
	wsServer.handshake()
	wsServer.Run()
}
