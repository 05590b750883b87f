package anim

import (
	"encoding/json"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// A ControlMessage drives the animator over MQTT. Type picks the
// operation; Name, State and FPS carry its argument.
type ControlMessage struct {
	Type  string  `json:"type"`
	Name  string  `json:"name,omitempty"`
	State string  `json:"state,omitempty"`
	FPS   float64 `json:"fps,omitempty"`
}

// StateClips maps host state names to the clip that plays for them.
var StateClips = map[string]string{
	"on_open":  "open",
	"idle":     "idle",
	"speaking": "idle",
	"advance":  "idle",
	"results":  "celebrate",
	"finish":   "finish_hold",
}

// A Streamer drives an Animator from MQTT control messages and
// publishes the resulting frame samples at the configured frame rate.
// All animator access happens on the Run goroutine; the mutex only
// guards the snapshot read by preview surfaces.
type Streamer struct {
	config   Config
	client   mqtt.Client
	animator *Animator
	control  chan ControlMessage
	reload   chan map[string]*Clip

	mu        sync.Mutex
	last      *FrameSample
	lastImage image.Image
	clipInfos []ClipInfo
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client mqtt.Client, animator *Animator) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.animator = animator
	s.control = make(chan ControlMessage, 16)
	s.reload = make(chan map[string]*Clip, 1)
	s.clipInfos = animator.ClipInfos()
	return s
}

// Subscribe attaches the control topic handler; call it from the MQTT
// OnConnect callback so the subscription survives reconnects.
func (s *Streamer) Subscribe() {
	topic := s.config.Mqtt.Topics.Control
	if token := s.client.Subscribe(topic, 0, s.handleControl); token.Wait() && token.Error() != nil {
		log.Println(token.Error())
	}
}

func (s *Streamer) handleControl(client mqtt.Client, msg mqtt.Message) {
	var message ControlMessage
	if err := json.Unmarshal(msg.Payload(), &message); err != nil {
		log.Printf("Bad control message on %s: %v", msg.Topic(), err)
		return
	}
	s.control <- message
}

// Reload queues a freshly loaded clip set to be swapped in on the run
// loop. A pending reload is replaced, not queued behind.
func (s *Streamer) Reload(clips map[string]*Clip) {
	for {
		select {
		case s.reload <- clips:
			return
		case <-s.reload:
		}
	}
}

func (s *Streamer) apply(message ControlMessage) {
	switch message.Type {
	case "clip":
		s.animator.SelectNow(message.Name)
	case "state":
		if name, ok := StateClips[message.State]; ok {
			s.animator.SelectNow(name)
		}
	case "pause":
		s.animator.Pause()
	case "resume":
		s.animator.Resume()
	case "toggle":
		s.animator.TogglePause()
	case "fps":
		s.animator.SetFPSOverride(message.FPS)
	default:
		log.Printf("Ignoring control message type %q", message.Type)
	}
}

func (s *Streamer) step() {
	fi := s.animator.TickNow()
	if fi == nil {
		return
	}
	img, ok := s.animator.Image(fi)
	if !ok {
		img = Placeholder()
	}

	s.mu.Lock()
	s.last = fi
	s.lastImage = img
	s.mu.Unlock()

	b, err := json.Marshal(fi)
	if err != nil {
		return
	}
	token := s.client.Publish(s.config.Mqtt.Topics.Stream, 0, false, b)
	token.Wait()
}

// Run ticks the animator at the configured frame rate and publishes a
// sample per tick, applying control and reload events between ticks.
func (s *Streamer) Run() {
	frameRate := s.config.Anim.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}
	publishTimer := time.NewTicker(time.Duration(float64(time.Second) / frameRate))
	for {
		select {
		case <-publishTimer.C:
			s.step()
		case message := <-s.control:
			s.apply(message)
		case clips := <-s.reload:
			s.animator.SetClips(clips)
			s.mu.Lock()
			s.clipInfos = s.animator.ClipInfos()
			s.mu.Unlock()
			log.Printf("Reloaded %d clips", len(clips))
		}
	}
}

// Frame returns the most recently streamed sample and its decoded
// image. Safe to call from other goroutines.
func (s *Streamer) Frame() (*FrameSample, image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastImage
}

// Clips returns a snapshot of the registered clip summaries. Safe to
// call from other goroutines.
func (s *Streamer) Clips() []ClipInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clipInfos
}
