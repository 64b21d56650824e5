package stream

import (
	"encoding/json"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
)

const publishTimeout = 5 * time.Second

// A Sink receives the frames rendered by a slot.
type Sink interface {
	SendFrame(f *Frame) error
}

// Streamer publishes frames and animation events over MQTT.
type Streamer struct {
	client      mqtt.Client
	streamTopic string
	eventTopic  string
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(client mqtt.Client, streamTopic, eventTopic string) *Streamer {
	s := new(Streamer)
	s.client = client
	s.streamTopic = streamTopic
	s.eventTopic = eventTopic
	return s
}

// SendFrame sends a frame as binary over MQTT.
func (s *Streamer) SendFrame(f *Frame) error {
	b, _ := f.MarshalBinary()
	return s.publish(s.streamTopic, 0, b)
}

// AnimationEvent is the JSON body of an event message.
type AnimationEvent struct {
	Animation string `json:"animation"`
	Event     string `json:"event"`
	Config    any    `json:"config,omitempty"`
}

// PublishEvent publishes a lifecycle event of the named animation.
func (s *Streamer) PublishEvent(animation, event string, config any) error {
	if s.eventTopic == "" {
		return nil
	}
	b, err := json.Marshal(AnimationEvent{Animation: animation, Event: event, Config: config})
	if err != nil {
		return errors.Wrapf(err, "encode %s event", event)
	}
	return s.publish(s.eventTopic, 1, b)
}

func (s *Streamer) publish(topic string, qos byte, payload []byte) error {
	token := s.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.Errorf("publish to %s timed out", topic)
	}
	return errors.Wrapf(token.Error(), "publish to %s", topic)
}
