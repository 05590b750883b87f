package main

import (
	"flag"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/animtx/anim"
	"github.com/matt-g-everett/animtx/api"
)

type app struct {
	Config   anim.Config
	Client   mqtt.Client
	Animator *anim.Animator
	Streamer *anim.Streamer
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	a.Streamer.Subscribe()
}

func (a *app) run() {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
	a.Streamer.Run()
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		panic(err)
	}

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&a.Config)
	if err != nil {
		panic(err)
	}
}

func main() {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config)

	clips, report := anim.LoadOrDefault(a.Config.Anim.Manifest)
	if report.Degraded() {
		log.Printf("Clip manifest degraded: %v", report.Degradations())
	}

	caches := anim.NewCacheSet()
	defer caches.Close()
	a.Animator = anim.NewAnimator(clips, caches)
	a.Animator.SelectNow("idle")

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("animtx").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	a.Streamer = anim.NewStreamer(a.Config, a.Client, a.Animator)

	if watcher, err := anim.NewWatcher(a.Config.Anim.Manifest, a.Streamer); err == nil {
		defer watcher.Close()
		go watcher.Run()
	} else {
		log.Printf("Manifest watch disabled: %v", err)
	}

	go api.NewApi(a.Config.Api.Addr, a.Streamer).Serve()

	a.run()
}
