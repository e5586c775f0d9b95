package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv"
	"github.com/jypelle/yuvbridge/internal/srv/config"
	"github.com/jypelle/yuvbridge/internal/srv/simwindow"
	"github.com/jypelle/yuvbridge/internal/version"
	"github.com/sirupsen/logrus"
)

const configSuffix = "yuvbridge"

func main() {

	// Logger
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	// region Flags and Commands definition

	// Debug Mode
	debugMode := flag.Bool("d", false, "Enable debug mode")

	// Simulation Mode
	simulationMode := flag.Bool("s", false, "Enable simulation mode (no GPIO, no I2C)")

	// User config dir
	defaultConfigDir := "./." + configSuffix
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		defaultConfigDir = filepath.Join(userConfigDir, configSuffix)
	}
	configDir := flag.String("c", defaultConfigDir, "Location of yuvbridge config folder")

	// Usage
	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] [COMMAND]\n", mainCommand)
		fmt.Printf("\nShared memory video and input bridge\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  engine    Run the demo engine and publish its frames\n")
		fmt.Printf("  input     Feed the key status from buttons and api\n")
		fmt.Printf("  view      Mirror the published frames on the oled display\n")
		fmt.Printf("  version   Show the version number\n")
		fmt.Printf("\nRun '%s COMMAND --help' for more information on a command.\n", mainCommand)
	}

	roles := map[string]srv.Role{
		"engine": srv.ENGINE_ROLE,
		"input":  srv.INPUT_ROLE,
		"view":   srv.VIEW_ROLE,
	}
	descriptions := map[string]string{
		"engine": "Run the demo engine, publish its frames and consume key events",
		"input":  "Write the key status from GPIO buttons and the https api",
		"view":   "Read the published frames and mirror them on the oled display",
	}

	// endregion

	// region Flags and Commands Parsing
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	command := flag.Arg(0)
	cmd := flag.NewFlagSet(command, flag.ExitOnError)
	cmd.Usage = func() {
		fmt.Printf("\nUsage: %s %s\n", mainCommand, command)
		if description, ok := descriptions[command]; ok {
			fmt.Printf("\n%s\n", description)
		} else {
			fmt.Printf("\nShow the version information\n")
		}
	}

	role, isRole := roles[command]
	if !isRole && command != "version" {
		fmt.Printf("\n%s is not a yuvbridge command\n", command)
		flag.Usage()
		os.Exit(1)
	}
	cmd.Parse(flag.Args()[1:])
	if cmd.NArg() > 0 {
		fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, command)
		cmd.Usage()
		os.Exit(1)
	}
	// endregion

	if !isRole {
		fmt.Printf("Version %s\n", version.AppVersion.String())
		return
	}

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	serverConfig := config.NewServerConfig(*configDir, *debugMode, *simulationMode)
	serverApp := srv.NewServerApp(serverConfig, role, shm.NewFileAcquirer())
	if role == srv.VIEW_ROLE && serverConfig.SimulationMode && serverConfig.Display.Window {
		serverApp.SetViewer(simwindow.Open("yuvbridge " + role.String()))
	}

	// Listen stop signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	serverApp.Start()

	sig := <-ch
	logrus.Infof("Received signal: %v", sig)
	serverApp.Stop()
	os.Exit(0)
}
