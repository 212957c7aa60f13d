package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"Geocache/internal/game/actor"
	"Geocache/internal/game/dc"
	"Geocache/internal/game/interfaces"
	gamews "Geocache/internal/game/interfaces/handler/ws"
	"Geocache/internal/game/render"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/logs"
	"Geocache/internal/shared/serverconfig"
	"Geocache/internal/shared/session"
	"Geocache/internal/shared/transport/grpc"
	transporthttp "Geocache/internal/shared/transport/http"
	"Geocache/internal/shared/transport/ws"
	"Geocache/internal/shared/utils"
	"Geocache/modules/kit/logx"
)

func main() {
	cfgName := flag.String("config", "", "config file, default searches configs/conf.yml upward")
	healthcheck := flag.String("healthcheck", "", "check grpc health at host:port and exit")
	flag.Parse()

	if *healthcheck != "" {
		os.Exit(runHealthCheck(*healthcheck))
	}

	// .env 可选，不存在时只用系统环境变量
	_ = godotenv.Load()

	if err := serverconfig.Load(*cfgName, logs.SetLevel); err != nil {
		panic(err)
	}
	conf := serverconfig.Conf
	if err := logs.Init("game", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	baseLogger := logx.NewZapLogger(logs.Logger())

	ids, err := utils.NewSnowflakeFromEnv()
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	repo, closeRepo, err := openJournalRepo(conf)
	if err != nil {
		logs.Fatal("open journal failed", zap.Error(err), zap.String("driver", conf.Journal.Driver))
	}
	defer closeRepo()
	journal := dc.NewJournalDC(repo,
		dc.WithFlushEvery(time.Duration(conf.Journal.FlushEveryMs)*time.Millisecond),
		dc.WithBatchSize(conf.Journal.BatchSize),
		dc.WithMaxPending(conf.Journal.MaxPending),
		dc.WithLogger(baseLogger),
	)

	svc, err := service.FromConfig(conf.Game,
		service.WithJournal(journal),
		service.WithIDGenerator(ids),
		service.WithLogger(baseLogger),
	)
	if err != nil {
		logs.Fatal("build game service failed", zap.Error(err))
	}

	sessMgr := session.NewSessMgr()
	sinks := render.MultiFactory(render.LogFactory(baseLogger), gamews.SinkFactory(sessMgr))
	gameRuntime := actor.NewRuntime(svc, sinks,
		time.Duration(conf.Session.IdleTimeoutS)*time.Second,
		time.Duration(conf.Session.AskTimeoutMs)*time.Millisecond,
	)

	gameModule := interfaces.New(gameRuntime, svc, sessMgr,
		time.Duration(conf.Session.TTLHours)*time.Hour, baseLogger)

	wsRouter := ws.NewRouter(baseLogger)
	wsRouter.Register(gameModule)

	httpAddr := hostPort(conf.HTTPServer.Host, conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, nil, baseLogger)
	httpServer.Register(gameModule)

	wsServer := ws.NewServer(wsRouter, ws.NewCodec(conf.WS.NeedSecret), conf.WS.OutBuffer, baseLogger)
	httpServer.Engine().Any("/ws", gin.WrapH(wsServer))
	httpServer.Engine().Any("/ws/*any", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logs.Info("game http server started", zap.String("addr", httpAddr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("game http server start failed: %w", err)
		}
	}()

	var grpcServer *grpc.Server
	if conf.GRPCServer.Enabled {
		grpcAddr := hostPort(conf.GRPCServer.Host, conf.GRPCServer.Port)
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			logs.Fatal("listen game grpc failed", zap.Error(err))
		}
		grpcServer = grpc.NewServer(baseLogger)
		go func() {
			logs.Info("game grpc server started", zap.String("addr", grpcAddr))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("game grpc serve failed: %w", err)
			}
		}()
		grpcServer.SetServing(true)
	}

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if grpcServer != nil {
		grpcServer.SetServing(false)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.Stop(shutdownCtx)
	}
	gameRuntime.Shutdown()
	if err := journal.Close(shutdownCtx); err != nil {
		logs.Warn("journal close failed", zap.Error(err), zap.Int("pending", journal.Pending()))
	}
}

func hostPort(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func runHealthCheck(addr string) int {
	status, err := grpc.CheckHealth(context.Background(), addr, 3*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck %s failed: %v\n", addr, err)
		return 1
	}
	fmt.Println(status.String())
	if status != healthpb.HealthCheckResponse_SERVING {
		return 1
	}
	return 0
}
