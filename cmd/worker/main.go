package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/internal/queue"
	"github.com/OFFIS-RIT/docvis/internal/storage"
	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/logger/console"
	"github.com/OFFIS-RIT/docvis/pkg/render"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	util.LoadEnv()
	cfg := util.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.New(console.Options{
		Debug:  cfg.Debug,
		Format: cfg.LogFormat,
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	// Init s3 client
	var s3Client *s3.Client
	if cfg.S3Enabled() {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create s3 client", "err", err)
		}
		s3Client = client
	}

	p, err := pipeline.FromConfig(ctx, cfg, s3Client)
	if err != nil {
		logger.Fatal("Failed to set up pipeline", "err", err)
	}
	defer p.Close()

	metricsServer := &http.Server{Addr: ":" + cfg.WorkerMetricsPort, Handler: p.Metrics().Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "err", err)
		}
	}()
	defer metricsServer.Close()

	// Init rabbitmq
	conn, err := queue.Dial(ctx, cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	queueName := queue.VisualizationQueue
	if err := queue.SetupQueues(ch, []string{queueName}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// prefetch=1 so only one message is processed at a time
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queueName,
		fmt.Sprintf("%s_consumer", queueName),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queueName, "err", err)
	}

	processor := &queue.Processor{
		Pipeline:  p,
		Publisher: ch,
		S3:        s3Client,
		Bucket:    cfg.AWSBucket,
		SVG:       render.SVGAdapter{},
	}

	logger.Info("Listening for messages", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queueName)
				return
			}
			startTime := time.Now()
			logger.Info("Received message", "queue", queueName)

			if err := processor.ProcessVisualizationMessage(ctx, msg.Body); err != nil {
				logger.Error("Error processing message", "queue", queueName, "err", err)
				queue.HandleProcessingError(ctx, ch, msg, queueName, queue.IsPermanent(err))
			} else {
				if err := msg.Ack(false); err != nil {
					logger.Error("Failed to ack message", "err", err)
				}
				logger.Info("Message processed successfully", "queue", queueName)
			}

			if usage, ok := p.AIUsage(); ok {
				logger.Info(
					"AI Metrics",
					"input_tokens", usage.InputTokens,
					"output_tokens", usage.OutputTokens,
					"total_tokens", usage.TotalTokens,
					"requests", usage.Requests,
					"duration", formatDuration(time.Duration(usage.DurationMs)*time.Millisecond),
				)
				p.ResetAIUsage()
			}
			logger.Info("Processing time", "duration", formatDuration(time.Since(startTime)))
			logger.Info("Waiting for next message")
		}
	}
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
