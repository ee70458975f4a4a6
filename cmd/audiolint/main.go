package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lixenwraith/scene-audio/asset"
	"github.com/lixenwraith/scene-audio/audio"
	"github.com/lixenwraith/scene-audio/constant"
)

func main() {
	configPath := flag.String("config", "", "Scene audio TOML (default: built-in config)")
	assetDir := flag.String("assets", constant.DefaultAssetDir, "Directory clip paths are relative to")
	quiet := flag.Bool("q", false, "Print issues only")
	flag.Parse()

	var (
		doc *audio.SceneAudioConfig
		err error
	)
	if *configPath == "" {
		doc, err = audio.LoadSceneAudioConfig([]byte(asset.DefaultSceneAudioConfig))
	} else {
		doc, err = audio.LoadSceneAudioConfigFile(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	report := asset.ValidateSceneAudio(doc, *assetDir)

	if !*quiet {
		fmt.Printf("%d scenes, %d clip files, %d sound categories\n", len(doc.Scenes), len(doc.Clips), len(doc.Sounds))
		for _, c := range report.Clips {
			fmt.Printf("  %-20s %-6s %6d Hz  %dch  %v\n", c.ID, c.Format, c.SampleRate, c.Channels, c.Duration)
		}
	}
	for _, issue := range report.Issues {
		fmt.Println(issue)
	}

	if !report.OK() {
		os.Exit(1)
	}
}
