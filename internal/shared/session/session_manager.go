package session

import (
	"sync"

	"Geocache/internal/shared/transport/ws"
)

// Manager 维护会话 id 与 ws 连接的绑定，一个会话可以同时开多个连接（多个地图页）。
type Manager interface {
	Bind(sid string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindSID(sid string)
	Conns(sid string) []ws.WSConn
	GetSID(conn ws.WSConn) (string, bool)
	// Push 推送给会话的所有连接，返回推送的连接数。
	Push(sid string, name string, data any) int
}

type SessMgr struct {
	sync.RWMutex
	sid2conns map[string]map[ws.WSConn]struct{}
	conn2sid  map[ws.WSConn]string
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		sid2conns: make(map[string]map[ws.WSConn]struct{}),
		conn2sid:  make(map[ws.WSConn]string),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(sid string, conn ws.WSConn) {
	if conn == nil || sid == "" {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 为每条连接只启动一次 watcher：连接关闭后自动解绑
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	// 同一连接换绑到别的会话时先从旧会话移除
	if old, ok := s.conn2sid[conn]; ok && old != sid {
		s.removeLocked(old, conn)
	}
	conns := s.sid2conns[sid]
	if conns == nil {
		conns = make(map[ws.WSConn]struct{})
		s.sid2conns[sid] = conns
	}
	conns[conn] = struct{}{}
	s.conn2sid[conn] = sid
	conn.SetProperty(ws.ConnKeySID, sid)
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	delete(s.watched, conn)
	if sid, ok := s.conn2sid[conn]; ok {
		s.removeLocked(sid, conn)
	}
	delete(s.conn2sid, conn)
}

// UnbindSID 解绑会话的所有连接，连接本身不关闭。
func (s *SessMgr) UnbindSID(sid string) {
	s.Lock()
	defer s.Unlock()
	for conn := range s.sid2conns[sid] {
		delete(s.conn2sid, conn)
		conn.RemoveProperty(ws.ConnKeySID)
	}
	delete(s.sid2conns, sid)
}

func (s *SessMgr) Conns(sid string) []ws.WSConn {
	s.RLock()
	defer s.RUnlock()
	out := make([]ws.WSConn, 0, len(s.sid2conns[sid]))
	for conn := range s.sid2conns[sid] {
		out = append(out, conn)
	}
	return out
}

func (s *SessMgr) GetSID(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	sid, ok := s.conn2sid[conn]
	return sid, ok
}

func (s *SessMgr) Push(sid string, name string, data any) int {
	conns := s.Conns(sid)
	for _, c := range conns {
		c.Push(name, data)
	}
	return len(conns)
}

func (s *SessMgr) removeLocked(sid string, conn ws.WSConn) {
	conns := s.sid2conns[sid]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(s.sid2conns, sid)
	}
}

var _ Manager = (*SessMgr)(nil)
