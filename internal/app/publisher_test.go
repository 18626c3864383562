package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

type fakeToken struct {
	err error
}

func (t fakeToken) Wait() bool                       { return true }
func (t fakeToken) WaitTimeout(_ time.Duration) bool { return true }
func (t fakeToken) Error() error                     { return t.err }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publishes and keeps subscription handlers. Methods it
// does not override panic through the nil embedded interface.
type fakeClient struct {
	mqtt.Client

	mu         sync.Mutex
	pubs       []published
	handlers   map[string]mqtt.MessageHandler
	pubErr     error
	subErr     error
	disconnect int
}

func newFakeClient() *fakeClient {
	return &fakeClient{handlers: make(map[string]mqtt.MessageHandler)}
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pubs = append(c.pubs, published{topic, qos, retained, payload.([]byte)})
	return fakeToken{err: c.pubErr}
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subErr == nil {
		c.handlers[topic] = cb
	}
	return fakeToken{err: c.subErr}
}

func (c *fakeClient) Disconnect(_ uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnect++
}

// deliver hands payload to the handler subscribed on topic.
func (c *fakeClient) deliver(t *testing.T, topic string, payload []byte) {
	t.Helper()
	c.mu.Lock()
	cb, ok := c.handlers[topic]
	c.mu.Unlock()
	if !ok {
		t.Fatalf("no subscription on %q", topic)
	}
	cb(c, fakeMessage{topic: topic, payload: payload})
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func sampleReading() imu.Reading {
	return imu.Reading{
		Acceleration:     imu.Vec3{0.1, -0.2, 0.98},
		AngularRate:      imu.Vec3{0.01, 0.02, -0.03},
		AngularRateDelta: imu.Vec3{0.001, 0, -0.002},
	}
}

func TestMQTTPublisherPublishesRetainedJSON(t *testing.T) {
	client := newFakeClient()
	pub := NewMQTTPublisher(client, "car/imu")

	want := sampleReading()
	if err := pub.Publish(want); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(client.pubs) != 1 {
		t.Fatalf("publishes=%d want=1", len(client.pubs))
	}
	p := client.pubs[0]
	if p.topic != "car/imu" || p.qos != 0 || !p.retained {
		t.Fatalf("topic=%q qos=%d retained=%v", p.topic, p.qos, p.retained)
	}

	var got imu.Reading
	if err := json.Unmarshal(p.payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got != want {
		t.Fatalf("got=%+v want=%+v", got, want)
	}

	pub.Close()
	if client.disconnect != 1 {
		t.Fatalf("disconnects=%d want=1", client.disconnect)
	}
}

func TestMQTTPublisherReportsBrokerError(t *testing.T) {
	client := newFakeClient()
	client.pubErr = errors.New("not connected")

	err := NewMQTTPublisher(client, "car/imu").Publish(sampleReading())
	if !errors.Is(err, client.pubErr) {
		t.Fatalf("err=%v want wrapping %v", err, client.pubErr)
	}
}

func TestSubscribeReadingsDecodesAndDropsGarbage(t *testing.T) {
	client := newFakeClient()

	var got []imu.Reading
	if err := SubscribeReadings(client, "car/imu", "test", func(r imu.Reading) {
		got = append(got, r)
	}); err != nil {
		t.Fatalf("SubscribeReadings: %v", err)
	}

	want := sampleReading()
	payload, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	client.deliver(t, "car/imu", []byte("{not json"))
	client.deliver(t, "car/imu", payload)

	if len(got) != 1 || got[0] != want {
		t.Fatalf("got=%+v want=[%+v]", got, want)
	}
}

func TestSubscribeReadingsError(t *testing.T) {
	client := newFakeClient()
	client.subErr = errors.New("denied")

	err := SubscribeReadings(client, "car/imu", "test", func(imu.Reading) {})
	if !errors.Is(err, client.subErr) {
		t.Fatalf("err=%v want=%v", err, client.subErr)
	}
}

func TestDecodeReading(t *testing.T) {
	r, err := decodeReading([]byte(`{"acceleration":[0,0,1],"angularRate":[1,2,3],"angularRateDelta":[0,0,0]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Acceleration != (imu.Vec3{0, 0, 1}) || r.AngularRate != (imu.Vec3{1, 2, 3}) {
		t.Fatalf("got=%+v", r)
	}
	if _, err := decodeReading([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for non-object payload")
	}
}
