package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hoshinet/montagen/internal/config"
	"github.com/hoshinet/montagen/internal/detection"
	"github.com/hoshinet/montagen/internal/geometry"
	"github.com/hoshinet/montagen/internal/imaging"
	"github.com/hoshinet/montagen/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("montagen %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Logging goes to stderr; stdout carries only the output path.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if os.Getenv("MONTAGEN_LOG_LEVEL") == "debug" {
		log.Printf("montagen v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := run(os.Args[1:]); err != nil {
		log.Printf("montagen: %v", err)
		os.Exit(exitCode(err))
	}
}

func printHelp() {
	fmt.Println("montagen - build a montage from cropped, masked screenshots")
	fmt.Println()
	fmt.Println("Usage: montagen [options] [file ...]")
	fmt.Println()
	fmt.Println("Without file arguments, the input directory is scanned for")
	fmt.Println("screenshots and they are montaged in filename order.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -in DIR            directory scanned for input screenshots (default \".\")")
	fmt.Println("  -out FILE          output file (default: timestamped name in the input directory)")
	fmt.Println("  -settings FILE     settings file (default: the per-user config location)")
	fmt.Println("  -cols N            tiles per row, overriding the saved setting")
	fmt.Println("  -offset N          gutter between tiles in pixels, overriding the saved setting")
	fmt.Println("  -format FMT        output format webp, png or jpeg, overriding the saved setting")
	fmt.Println("  -quality N         encoder quality 1-100, overriding the saved setting")
	fmt.Println("  -crop X,Y,W,H      manual crop rectangle; implies -auto-crop=false")
	fmt.Println("  -auto-crop         enable or disable crop detection, overriding the saved setting")
	fmt.Println("  -detect-crop       only detect the crop rectangle on the first input and print it")
	fmt.Println("  -save-settings     write the effective settings back to the settings file")
	fmt.Println("  --version, -v      print version information")
	fmt.Println("  --help, -h         print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  MONTAGEN_LOG_LEVEL=debug    enable debug logging")
	fmt.Println("  MONTAGEN_TESSDATA=DIR       Tesseract language data for label-based masks")
	fmt.Println()
	fmt.Println("The output path is printed on stdout; progress and diagnostics")
	fmt.Println("go to stderr.")
}

func run(args []string) error {
	flags := flag.NewFlagSet("montagen", flag.ExitOnError)
	var (
		inDir        = flags.String("in", ".", "directory scanned for input screenshots")
		outPath      = flags.String("out", "", "output file path")
		settingsPath = flags.String("settings", "", "settings file path")
		cols         = flags.Int("cols", 0, "tiles per row")
		offset       = flags.Int("offset", 0, "gutter between tiles in pixels")
		format       = flags.String("format", "", "output format: webp, png or jpeg")
		quality      = flags.Int("quality", 0, "encoder quality 1-100")
		cropFlag     = flags.String("crop", "", "manual crop rectangle as X,Y,W,H")
		autoCrop     = flags.Bool("auto-crop", false, "enable automatic crop detection")
		detectOnly   = flags.Bool("detect-crop", false, "only detect and print the crop rectangle")
		saveSettings = flags.Bool("save-settings", false, "write the effective settings back")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Flags override the saved settings only when actually given, so a
	// plain invocation runs exactly what the settings file says.
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	path := *settingsPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to locate settings: %w", err)
		}
	}
	settings, err := config.Load(path)
	if err != nil {
		return err
	}
	if set["cols"] {
		settings.Columns = *cols
	}
	if set["offset"] {
		settings.TileOffset = *offset
	}
	if set["format"] {
		settings.Format = *format
	}
	if set["quality"] {
		settings.Quality = *quality
	}
	if set["auto-crop"] {
		settings.CropAuto = *autoCrop
	}
	if set["crop"] {
		rect, err := parseCropRect(*cropFlag)
		if err != nil {
			return err
		}
		settings.Crop = rect
		settings.CropAuto = false
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths, err = imaging.ListImages(*inDir)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .png or .jpg screenshots in %s", *inDir)
	}

	if *detectOnly {
		return detectCrop(paths[0])
	}
	log.Printf("montaging %d screenshots", len(paths))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &pipeline.Runner{
		Progress: func(p pipeline.Progress) {
			fmt.Fprintf(os.Stderr, "\r[%s] %3d%% ", p.Phase, p.Percent)
		},
	}

	result, runErr := runner.Run(ctx, pipeline.Request{Paths: paths, Settings: *settings})
	fmt.Fprintln(os.Stderr)
	if runErr != nil {
		return runErr
	}

	out := *outPath
	if out == "" {
		out = filepath.Join(*inDir, result.Filename)
	}
	if err := os.WriteFile(out, result.Data, 0644); err != nil {
		return fmt.Errorf("failed to write montage: %w", err)
	}

	for _, n := range result.Notices {
		log.Printf("note: %s", n)
	}
	g := result.Geometry
	log.Printf("montage %dx%d: %d tiles in a %dx%d grid, crop %dx%d at (%d,%d)",
		g.Width, g.Height, len(paths), g.Columns, g.Rows,
		g.Crop.Width, g.Crop.Height, g.Crop.X, g.Crop.Y)
	fmt.Println(out)

	if result.CropAutoDisabled {
		settings.CropAuto = false
	}
	if *saveSettings || result.CropAutoDisabled {
		if err := config.Save(path, settings); err != nil {
			return err
		}
		log.Printf("settings saved to %s", path)
	}
	return nil
}

// detectCrop runs only the boundary detector on one screenshot and
// prints the rectangle it finds.
func detectCrop(path string) error {
	img, err := imaging.DecodeFile(path)
	if err != nil {
		return err
	}
	rect, ok := detection.DetectCrop(img)
	if !ok {
		return fmt.Errorf("no content rectangle detected in %s", path)
	}
	fmt.Printf("%d,%d,%d,%d\n", rect.X, rect.Y, rect.Width, rect.Height)
	return nil
}

func parseCropRect(s string) (geometry.Rect, error) {
	var r geometry.Rect
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X, &r.Y, &r.Width, &r.Height)
	if err != nil || n != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid crop %q, want X,Y,W,H", s)
	}
	return r, nil
}

// exitCode maps run failures to shell exit statuses: bad input is 2,
// interruption is 130, everything else 1.
func exitCode(err error) int {
	switch pipeline.CodeOf(err) {
	case pipeline.CodeValidation:
		return 2
	case pipeline.CodeCanceled:
		return 130
	default:
		return 1
	}
}
