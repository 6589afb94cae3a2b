package main

import (
	"image"
	"image/png"
	"log"
	"os"
	"runtime"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/ljsoft/gba7/config"
	"github.com/ljsoft/gba7/internal/system"
	"github.com/ljsoft/gba7/rom"
	"github.com/ljsoft/gba7/util/dbg"
)

func main() {
	optROM := getopt.StringLong("rom", 'r', "", "Path to GBA ROM file")
	optBIOS := getopt.StringLong("bios", 'b', "", "Path to GBA BIOS image (overrides config)")
	optConfig := getopt.StringLong("config", 'c', "", "Path to TOML config file")
	optFrames := getopt.IntLong("frames", 'f', 0, "Stop after N frames (0 = run forever)")
	optHelp := getopt.BoolLong("help", 'h', "Show usage")
	getopt.Parse()

	if *optHelp || *optROM == "" {
		getopt.Usage()
		if *optROM == "" {
			os.Exit(1)
		}
		return
	}

	cfg := config.Default()
	if *optConfig != "" {
		loaded, err := config.Load(*optConfig)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	biosPath := cfg.BIOSPath
	if *optBIOS != "" {
		biosPath = *optBIOS
	}

	romImage, err := rom.Load(*optROM)
	if err != nil {
		log.Fatal(err)
	}

	var biosData []byte
	if biosPath != "" {
		biosData, err = os.ReadFile(biosPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	gba, err := system.New(romImage.Data, biosData)
	if err != nil {
		log.Fatal(err)
	}

	frameCount := 0
	totalFrames := 0
	lastTime := time.Now()

	for {
		gba.RunFrame()
		if gba.PPU.FrameReady() {
			frameCount++
			totalFrames++
			if totalFrames == 1 {
				saveFrame(gba.PPU.Frame, "first_frame.png")
			}
			gba.ConsumeFrame()
		}

		if *optFrames > 0 && totalFrames >= *optFrames {
			return
		}

		if time.Since(lastTime) >= time.Second {
			dbg.Printf("FPS: %d\n", frameCount)
			frameCount = 0
			lastTime = time.Now()
		}

		runtime.Gosched()
	}
}

func saveFrame(img *image.RGBA, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("Saved frame to %s", filename)
}
