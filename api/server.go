package api

import (
	"encoding/json"
	"image/png"
	"log"
	"net/http"

	"github.com/matt-g-everett/animtx/anim"
)

// Api serves a read-only preview of the streamer state.
type Api struct {
	addr     string
	streamer *anim.Streamer
}

// NewApi creates an instance of an Api.
func NewApi(addr string, streamer *anim.Streamer) *Api {
	a := new(Api)
	a.addr = addr
	a.streamer = streamer
	return a
}

func (a *Api) handleClips(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a.streamer.Clips())
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	_, img := a.streamer.Frame()
	if img == nil {
		img = anim.Placeholder()
	}
	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, img)
}

func (a *Api) handleSample(w http.ResponseWriter, r *http.Request) {
	fi, _ := a.streamer.Frame()
	if fi == nil {
		http.Error(w, "no sample", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fi)
}

// Serve blocks on the preview endpoints.
func (a *Api) Serve() {
	mux := http.NewServeMux()
	mux.HandleFunc("/clips", a.handleClips)
	mux.HandleFunc("/frame.png", a.handleFrame)
	mux.HandleFunc("/sample", a.handleSample)

	addr := a.addr
	if addr == "" {
		addr = ":3000"
	}
	log.Println("Listening...")
	http.ListenAndServe(addr, mux)
}
