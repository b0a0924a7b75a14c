package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/n-ulricksen/atari800-emulator/atari"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	flagRom    string
	flagImage  string
	flagOut    string
	flagFrames int
	flagDebug  bool
	flagTrace  bool
)

var rootCmd = &cobra.Command{
	Use:   "atari800",
	Short: "Atari 800 emulator",
	Long:  "Cycle-stepped Atari 800 emulator: 6502 CPU, ANTIC, GTIA, POKEY, and PIA on a shared bus.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the emulator with a display window",
	Run: func(cmd *cobra.Command, args []string) {
		pixelgl.Run(func() {
			machine := newMachine()
			machine.Run()
		})
	},
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Boot, render one frame, and write it to an image file",
	Run: func(cmd *cobra.Command, args []string) {
		machine := newMachine()

		// Let the OS set up its power-on display list before rasterizing.
		for i := 0; i < flagFrames; i++ {
			for !machine.Antic.FrameComplete {
				machine.Clock()
			}
			machine.Antic.FrameComplete = false
		}

		machine.RenderFrame()

		var err error
		if strings.HasSuffix(flagOut, ".ppm") {
			err = machine.Gtia.Framebuffer.SavePpm(flagOut)
		} else {
			err = machine.Gtia.Framebuffer.SavePng(flagOut)
		}
		if err != nil {
			log.Fatalf("Unable to write %v\n%v\n", flagOut, err)
		}

		fmt.Println("Saved frame to", flagOut)
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the 6502 functional test suite",
	Run: func(cmd *cobra.Command, args []string) {
		harness := atari.NewFuncTest(flagImage)
		if !harness.Run() {
			os.Exit(1)
		}
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Single-step the machine in an interactive terminal UI",
	Run: func(cmd *cobra.Command, args []string) {
		machine := newMachine()
		if err := atari.Monitor(machine); err != nil {
			log.Fatal(err)
		}
	},
}

func newMachine() *atari.Atari800 {
	fmt.Println("Starting Atari 800...")
	machine := atari.NewAtari800(flagDebug, flagTrace)
	machine.LoadOsRom(flagRom)

	fmt.Println("Resetting...")
	machine.Reset()

	return machine
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug panel")
	rootCmd.PersistentFlags().BoolVarP(&flagTrace, "trace", "l", false, "enable CPU trace logging")
	rootCmd.PersistentFlags().StringVar(&flagRom, "rom", "./roms/ATARIOSB.ROM", "OS ROM image")

	frameCmd.Flags().StringVarP(&flagOut, "out", "o", "atari800.png", "output image (.png or .ppm)")
	frameCmd.Flags().IntVar(&flagFrames, "boot-frames", 60, "frames to run before rendering")

	testCmd.Flags().StringVar(&flagImage, "image", "./roms/6502_functional_test.bin", "functional test binary")

	rootCmd.AddCommand(runCmd, frameCmd, testCmd, monitorCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
