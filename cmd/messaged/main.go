package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ccbrown/keyvaluestore"
	"github.com/ccbrown/keyvaluestore/memorystore"
	"github.com/ccbrown/keyvaluestore/redisstore"
	"github.com/go-redis/redis"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ccbrown/messaged/api"
	"github.com/ccbrown/messaged/app"
	"github.com/ccbrown/messaged/model"
	"github.com/ccbrown/messaged/queue"
	"github.com/ccbrown/messaged/store"
)

func main() {
	addr := pflag.String("addr", ":5001", "the address to listen on")
	redisAddress := pflag.String("redis-address", "", "can be used to run with a redis database")
	amqpAddress := pflag.String("amqp-address", "", "can be used to publish events to an amqp broker")
	queueName := pflag.String("queue", "messageQueue", "the queue to publish events to")
	pflag.Parse()

	var backend keyvaluestore.Backend
	if *redisAddress == "" {
		logrus.Info("using a temporary database. if you would like data to be persistent, provide --redis-address")
		backend = memorystore.NewBackend()
	} else {
		backend = &redisstore.Backend{
			Client: redis.NewClient(&redis.Options{
				Addr: *redisAddress,
			}),
		}
	}

	var transport queue.Transport
	if *amqpAddress == "" {
		logrus.Info("events will not leave the process. if you would like them delivered, provide --amqp-address")
		transport = &queue.MemoryTransport{}
	} else {
		t, err := queue.DialAMQP(*amqpAddress, *queueName)
		if err != nil {
			logrus.Fatal(err)
		}
		transport = t
	}

	a := &app.App{
		Store: &store.Store{
			Backend: backend,
		},
		Events: &queue.Publisher{
			Transport: transport,
		},
	}
	ensureGeneralChannel(a.Store)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "HEAD", "PATCH", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-User"}),
	)

	server := &http.Server{
		Addr:        *addr,
		Handler:     cors((&api.API{App: a}).Handler()),
		ReadTimeout: 2 * time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		logrus.Info("signal caught. shutting down...")
		cancel()
	}()

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			logrus.Error(err)
		}
	}()

	logrus.Info("listening at " + *addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logrus.Error(err)
	}

	if err := transport.Close(); err != nil {
		logrus.Error(err)
	}
}

// ensureGeneralChannel seeds the public "general" channel every deployment
// starts with. The creator is a service-owned reference, so no real user
// holds mutation rights over it.
func ensureGeneralChannel(s *store.Store) {
	system := model.UserReference{
		UserName: "messaged",
	}
	err := s.AddChannel(&model.Channel{
		Id:          model.GenerateId(),
		Name:        "general",
		Description: "general channel",
		IsPrivate:   false,
		Members:     []model.UserReference{system},
		Creator:     system,
		CreatedAt:   time.Now(),
	})
	if err != nil && err != store.ErrChannelNameExists {
		logrus.Error(err)
	}
}
