package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cellfx/api"
	"github.com/matt-g-everett/cellfx/cell"
	"github.com/matt-g-everett/cellfx/fx"
	"github.com/matt-g-everett/cellfx/stream"
	"github.com/matt-g-everett/cellfx/term"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Scheduler  *fx.Scheduler
	Streamer   *stream.Streamer
	Controller *stream.Controller
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) readConfig(configPath string) {
	c, err := stream.LoadConfig(configPath)
	if err != nil {
		panic(err)
	}
	if v := os.Getenv("CELLFX_MQTT_URL"); v != "" {
		c.Mqtt.URL = v
	}
	if v := os.Getenv("CELLFX_MQTT_USERNAME"); v != "" {
		c.Mqtt.Username = v
	}
	if v := os.Getenv("CELLFX_MQTT_PASSWORD"); v != "" {
		c.Mqtt.Password = v
	}
	a.Config = c
}

func (a *app) run() {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
	a.Controller.Start()
}

// preview shows every playlist entry as a bar on the terminal until the
// screen is closed with Escape or Ctrl-C.
func (a *app) preview(done chan<- struct{}) {
	screen, err := tcell.NewScreen()
	if err != nil {
		panic(err)
	}
	if err := screen.Init(); err != nil {
		panic(err)
	}

	from, _ := colorful.Hex("#000005")
	to, _ := colorful.Hex("#808080")
	var bars []*fx.Animation
	for i, ac := range a.Config.Animations {
		anim := fx.NewAnimation(a.Scheduler)
		anim.SetDuration(time.Duration(ac.DurationMs) * time.Millisecond)
		if ac.Transition != "" {
			if err := anim.SetTransitionName(ac.Transition); err != nil {
				log.Printf("preview %s: %v", ac.Name, err)
			}
		}
		anim.AddSlot(term.NewBarSlot(screen, i, ac.Name, from, to))
		anim.On(fx.EventFinish, func(any) { anim.Start(nil) })
		bars = append(bars, anim)
	}
	a.Scheduler.Do(func() {
		for _, anim := range bars {
			anim.Start(nil)
		}
	})

	go func() {
		for {
			ev := screen.PollEvent()
			if key, ok := ev.(*tcell.EventKey); ok && (key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC) {
				a.Scheduler.Do(func() {
					for _, anim := range bars {
						anim.Dispose()
					}
				})
				screen.Fini()
				close(done)
				return
			}
		}
	}()
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	envPath := flag.String("env", ".env", "Optional file of environment overrides.")
	preview := flag.Bool("term", false, "Preview the playlist as terminal progress bars.")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !os.IsNotExist(err) {
		log.Printf("env: %v", err)
	}

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config.Animations)

	a.Scheduler = fx.NewScheduler(
		fx.WithFPS(a.Config.Scheduler.FPS),
		fx.WithErrorReporter(func(err error) {
			log.Printf("scheduler stopped: %v", err)
		}),
	)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("cellfx").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(a.Client, a.Config.Mqtt.Topics.Stream, a.Config.Mqtt.Topics.Events)

	controller, err := stream.NewController(a.Scheduler, a.Streamer, a.Config)
	if err != nil {
		panic(err)
	}
	a.Controller = controller

	server := api.NewApi(a.Scheduler, cell.Default(), a.Config.Api.Root)
	go func() {
		if err := server.Serve(a.Config.Api.Listen); err != nil {
			log.Printf("api: %v", err)
		}
	}()

	done := make(chan struct{})
	if *preview {
		a.preview(done)
	} else {
		a.run()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-done:
	}
	if !*preview {
		a.Controller.Stop()
		a.Client.Disconnect(250)
	}
}
