package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/eventsink"
	"github.com/iov-one/tipjar/weavetest/assert"
)

var tipjarEnv = []string{
	"TIPJAR_HOME", "TIPJAR_LOG_LEVEL", "TIPJAR_EVENT_SINK", "TIPJAR_OUTBOX",
	"TIPJAR_KAFKA_BROKERS", "TIPJAR_KAFKA_TOPIC", "TIPJAR_AMQP_URL",
	"TIPJAR_AMQP_EXCHANGE", "TIPJAR_FORWARD_INTERVAL",
}

func clearEnv(t *testing.T) {
	for _, name := range tipjarEnv {
		t.Setenv(name, "")
	}
}

func TestParseConfig(t *testing.T) {
	cases := map[string]struct {
		env      map[string]string
		args     []string
		wantArgs []string
		check    func(t *testing.T, c config)
		wantErr  *errors.Error
	}{
		"defaults": {
			args:     []string{"start"},
			wantArgs: []string{"start"},
			check: func(t *testing.T, c config) {
				assert.Equal(t, sinkNone, c.EventSink)
				assert.Equal(t, "info", c.LogLevel)
				assert.Equal(t, time.Second, c.ForwardInterval)
				assert.Equal(t, []string{"localhost:9092"}, c.KafkaBrokers)
				assert.Equal(t, filepath.Join(c.Home, "data", "events.sqlite"), c.Outbox)
			},
		},
		"environment": {
			env: map[string]string{
				"TIPJAR_HOME":             "/srv/tipjar",
				"TIPJAR_EVENT_SINK":       "kafka",
				"TIPJAR_KAFKA_BROKERS":    "k1:9092, k2:9092,",
				"TIPJAR_FORWARD_INTERVAL": "5",
			},
			args:     []string{"start", "-bind", "tcp://0.0.0.0:26658"},
			wantArgs: []string{"start", "-bind", "tcp://0.0.0.0:26658"},
			check: func(t *testing.T, c config) {
				assert.Equal(t, "/srv/tipjar", c.Home)
				assert.Equal(t, sinkKafka, c.EventSink)
				assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
				assert.Equal(t, 5*time.Second, c.ForwardInterval)
				assert.Equal(t, "/srv/tipjar/data/events.sqlite", c.Outbox)
			},
		},
		"flags override environment": {
			env:      map[string]string{"TIPJAR_EVENT_SINK": "kafka", "TIPJAR_FORWARD_INTERVAL": "2s"},
			args:     []string{"-event-sink", "amqp", "-outbox", "/tmp/outbox.sqlite", "-forward-interval", "250ms", "version"},
			wantArgs: []string{"version"},
			check: func(t *testing.T, c config) {
				assert.Equal(t, sinkAMQP, c.EventSink)
				assert.Equal(t, "/tmp/outbox.sqlite", c.Outbox)
				assert.Equal(t, 250*time.Millisecond, c.ForwardInterval)
			},
		},
		"unknown sink": {
			args:    []string{"-event-sink", "carrier-pigeon", "start"},
			wantErr: errors.ErrInput,
		},
		"kafka without brokers": {
			args:    []string{"-event-sink", "kafka", "-kafka-brokers", " , ", "start"},
			wantErr: errors.ErrEmpty,
		},
		"amqp without url": {
			env:     map[string]string{"TIPJAR_AMQP_URL": ""},
			args:    []string{"-event-sink", "amqp", "-amqp-url", "", "start"},
			wantErr: errors.ErrEmpty,
		},
		"malformed interval": {
			env:     map[string]string{"TIPJAR_FORWARD_INTERVAL": "soon"},
			wantErr: errors.ErrInput,
		},
		"non positive interval": {
			args:    []string{"-forward-interval", "0s"},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, args, err := parseConfig(tc.args)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.wantArgs, args)
			tc.check(t, cfg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("TIPJAR_KAFKA_TOPIC")
	t.Setenv("TIPJAR_HOME", "/from/environment")

	path := filepath.Join(t.TempDir(), ".env")
	content := "TIPJAR_HOME=/from/dotenv\nTIPJAR_KAFKA_TOPIC=tips\n"
	assert.Nil(t, os.WriteFile(path, []byte(content), 0600))
	assert.Nil(t, loadDotEnv(path))

	cfg, _, err := parseConfig([]string{"start"})
	assert.Nil(t, err)
	// variables already set win over the file
	assert.Equal(t, "/from/environment", cfg.Home)
	assert.Equal(t, "tips", cfg.KafkaTopic)

	assert.Nil(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestPublisherSelection(t *testing.T) {
	pub, closePub, err := config{EventSink: sinkNone}.publisher()
	assert.Nil(t, err)
	assert.Equal(t, eventsink.NopPublisher{}, pub)
	assert.Nil(t, closePub())

	pub, closePub, err = config{EventSink: sinkKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}.publisher()
	assert.Nil(t, err)
	if _, ok := pub.(*eventsink.KafkaPublisher); !ok {
		t.Fatalf("want kafka publisher, got %T", pub)
	}
	assert.Nil(t, closePub())
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "error", "none"} {
		_, err := newLogger(level)
		assert.Nil(t, err)
	}
	_, err := newLogger("loud")
	if err == nil {
		t.Fatal("unknown level accepted")
	}
}
