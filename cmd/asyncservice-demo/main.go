package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/shoushitsu/go-asyncservice/asyncservice"
	"github.com/shoushitsu/go-asyncservice/internal/config"
	"github.com/shoushitsu/go-asyncservice/internal/metrics"
)

var configFile string
var debug bool
var trace bool
var producers int
var tasksPerProducer int

var versionFlag bool
var version = "dev"
var commit = ""

func main() {
	pflag.StringVarP(&configFile, "config", "c", "", "config file path")
	pflag.BoolVarP(&debug, "debug", "d", false, "set log level to debug")
	pflag.BoolVarP(&trace, "trace", "t", false, "set log level to trace")
	pflag.IntVar(&producers, "producers", 4, "number of concurrent demo producers")
	pflag.IntVar(&tasksPerProducer, "tasks-per-producer", 100, "number of demo tasks each producer submits")
	pflag.BoolVarP(&versionFlag, "version", "v", false, "print version")
	pflag.Parse()

	if versionFlag {
		fmt.Println(version + "-" + commit)
		return
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if trace {
		log.SetLevel(log.TraceLevel)
	}

	cfg, err := config.New(configFile)
	if err != nil {
		log.WithError(err).Fatal("failed to read config")
	}
	if cfg.Logging.Level != "" {
		level, err := log.ParseLevel(cfg.Logging.Level)
		if err != nil {
			log.WithError(err).Fatal("invalid logging.level in config")
		}
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	setupCloseHandler(cancel)

	met := metrics.New()
	go func() {
		log.Infof("metrics server listening on %s", cfg.Prometheus.Address)
		if err := met.ServeHTTP(cfg.Prometheus.Address); err != nil {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	if err := run(ctx, cfg, met); err != nil {
		log.WithError(err).Fatal("demo run failed")
	}
}

func run(ctx context.Context, cfg *config.Config, met *metrics.Metrics) error {
	threading := asyncservice.DefaultThreads(cfg.Threading.Workers)
	if cfg.Threading.NameFormat != "" {
		threading = asyncservice.FormatThreadNames(threading.Count, cfg.Threading.NameFormat)
	}
	terminationTimeout := time.Duration(cfg.Termination.TimeoutSeconds) * time.Second

	switch cfg.Queue.Discipline {
	case config.DisciplineBounded:
		queue := asyncservice.NewBoundedQueue(cfg.Queue.CapacityLog2)
		return runDemo(ctx, queue, threading, terminationTimeout, met, queue.Sink())
	case config.DisciplineTwoLevel:
		queue := asyncservice.NewTwoLevelQueue(cfg.Queue.ExternalCapacityLog2)
		return runDemo(ctx, queue, threading, terminationTimeout, met, queue.ExternalSink())
	case config.DisciplineSplitting:
		queue := asyncservice.NewSplittingQueue()
		return runSplittingDemo(ctx, queue, threading, terminationTimeout, met)
	default:
		queue := asyncservice.NewUnboundedQueue()
		return runDemo(ctx, queue, threading, terminationTimeout, met, queue.Sink())
	}
}

// runDemo drives a Service backed by any of the Sink-based disciplines
// (Unbounded, Bounded, TwoLevel's external sink).
func runDemo(ctx context.Context, queue asyncservice.Queue, threading asyncservice.Threading, terminationTimeout time.Duration, met *metrics.Metrics, sink *asyncservice.Sink) error {
	svc := asyncservice.NewService(queue, threading, terminationTimeout, logrusServiceLogger{})
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}
	defer svc.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	for p := 0; p < producers; p++ {
		p := p
		group.Go(func() error {
			return produce(groupCtx, sink, p, tasksPerProducer, met)
		})
	}

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// produce submits count tasks through sink, stopping early if ctx is
// canceled. A queue that terminates mid-run is not treated as an error:
// Put delivers OnTermination to each task's callback directly, so the
// loop simply keeps going (and finishes quickly, since every remaining
// Put now resolves immediately) rather than reporting failure.
func produce(ctx context.Context, sink *asyncservice.Sink, producerIndex, count int, met *metrics.Metrics) error {
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			return nil
		}
		taskID := uuid.New()
		err := asyncservice.Put(ctx, sink, func() (uuid.UUID, error) {
			return taskID, nil
		}, asyncservice.CallbackFunc[uuid.UUID](
			func(uuid.UUID) { met.Succeeded.Inc() },
			func(error) { met.Failed.Inc() },
			func() { met.Terminated.Inc() },
		))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("producer %d: submitting task %s: %w", producerIndex, taskID, err)
		}
		met.Submitted.Inc()
	}
	return nil
}

// runSplittingDemo drives a Service backed by a SplittingQueue, bucketing
// demo tasks by producer index so tasks from the same producer serialize
// while different producers run concurrently.
func runSplittingDemo(ctx context.Context, queue *asyncservice.SplittingQueue, threading asyncservice.Threading, terminationTimeout time.Duration, met *metrics.Metrics) error {
	svc := asyncservice.NewService(queue, threading, terminationTimeout, logrusServiceLogger{})
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}
	defer svc.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	for p := 0; p < producers; p++ {
		p := p
		group.Go(func() error {
			for i := 0; i < tasksPerProducer; i++ {
				if groupCtx.Err() != nil {
					return nil
				}
				taskID := uuid.New()
				err := asyncservice.SplittingPut(groupCtx, queue, p, func() (uuid.UUID, error) {
					return taskID, nil
				}, asyncservice.CallbackFunc[uuid.UUID](
					func(uuid.UUID) { met.Succeeded.Inc() },
					func(error) { met.Failed.Inc() },
					func() { met.Terminated.Inc() },
				))
				if err != nil {
					if groupCtx.Err() != nil {
						return nil
					}
					return fmt.Errorf("producer %d: submitting task %s: %w", p, taskID, err)
				}
				met.Submitted.Inc()
			}
			return nil
		})
	}
	return group.Wait()
}

type logrusServiceLogger struct{}

func (logrusServiceLogger) Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

func setupCloseHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-c
		fmt.Fprintf(os.Stderr, "\nreceived signal '%s'. terminating...\n", sig.String())
		cancel()
	}()
}
