// Command jp2k inspects, encodes and decodes JPEG 2000 images, and
// transcodes DICOM files to the JPEG 2000 transfer syntaxes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cocosip/go-jp2k/codestream"
	"github.com/cocosip/go-jp2k/engine"
	"github.com/cocosip/go-jp2k/format"
	"github.com/cocosip/go-jp2k/gateway"
	"github.com/cocosip/go-jp2k/params"
	"github.com/cocosip/go-jp2k/pixel"
)

const usage = `Usage: jp2k <command> [flags] <args>

Commands:
  info   <file>                  print container kind, image header and structure
  encode [flags] <in.png> <out>  encode a PNG image
  decode [flags] <in> <out.png>  decode to PNG
  dicom  [flags] <in.dcm> <out.dcm>
                                 transcode DICOM pixel data to JPEG 2000
`

var errUsage = errors.New("invalid arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "info":
		err = runInfo(args[1:], stdout, stderr)
	case "encode":
		err = runEncode(args[1:], stdout, stderr)
	case "decode":
		err = runDecode(args[1:], stdout, stderr)
	case "dicom":
		err = runDICOM(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

// commonFlags are shared by every subcommand
type commonFlags struct {
	engine  string
	verbose bool
}

func newFlagSet(name string, stderr io.Writer, cf *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cf.engine, "engine", engine.Name, "registered engine name")
	fs.BoolVar(&cf.verbose, "v", false, "verbose diagnostics")
	return fs
}

func newGateway(cf commonFlags, stderr io.Writer) (*gateway.Gateway, error) {
	level := slog.LevelWarn
	if cf.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return gateway.NewNamed(cf.engine, gateway.WithLogger(logger))
}

func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != want {
		fs.Usage()
		return nil, errUsage
	}
	return fs.Args(), nil
}

func runInfo(args []string, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("info", stderr, &cf)
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(rest[0])
	if err != nil {
		return err
	}
	kind := format.Detect(data)
	fmt.Fprintf(stdout, "Format: %s\n", kind)
	if kind == format.KindUnknown {
		return fmt.Errorf("%s is not a JPEG 2000 file", rest[0])
	}

	g, err := newGateway(cf, stderr)
	if err != nil {
		return err
	}
	h, err := g.ReadHeader(gateway.FromBytes(data))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Size: %d x %d\n", h.Width, h.Height)
	fmt.Fprintf(stdout, "Alpha: %t\n", h.HasAlpha)
	fmt.Fprintf(stdout, "Resolutions: %d\n", h.NumResolutions)
	fmt.Fprintf(stdout, "Quality layers: %d\n", h.NumQualityLayers)
	return printStructure(stdout, data)
}

// printStructure lists the JP2 boxes and main-header markers of data.
func printStructure(w io.Writer, data []byte) error {
	boxes, err := codestream.FileBoxes(data)
	if err != nil {
		return err
	}
	if len(boxes) > 0 {
		names := make([]string, len(boxes))
		for i, b := range boxes {
			names[i] = b.Name()
		}
		fmt.Fprintf(w, "Boxes: %s\n", strings.Join(names, " "))
	}

	hdr, err := codestream.ReadMainHeader(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Components: %d\n", hdr.SIZ.Csiz)
	fmt.Fprintf(w, "Bit depth: %d\n", hdr.SIZ.Components[0].BitDepth())
	fmt.Fprintf(w, "Reversible: %t\n", hdr.COD.IsReversible())
	markers := make([]string, len(hdr.Markers))
	for i, m := range hdr.Markers {
		markers[i] = codestream.MarkerName(m)
	}
	fmt.Fprintf(w, "Markers: %s\n", strings.Join(markers, " "))
	return nil
}

func runEncode(args []string, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("encode", stderr, &cf)
	formatName := fs.String("format", "jp2", "output format: jp2 or j2k")
	resolutions := fs.Int("resolutions", 0, "number of resolution levels (0 = default)")
	ratios := fs.String("ratios", "", "comma-separated compression ratios, 1 = lossless layer")
	quality := fs.String("quality", "", "comma-separated PSNR targets in dB, 0 = lossless layer")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	f, err := os.Open(rest[0])
	if err != nil {
		return err
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rest[0], err)
	}
	buf := pixel.FromImage(img)

	outFormat, err := params.ParseOutputFormat(*formatName)
	if err != nil {
		return err
	}
	ratioValues, err := parseFloats(*ratios)
	if err != nil {
		return fmt.Errorf("-ratios: %w", err)
	}
	qualityValues, err := parseFloats(*quality)
	if err != nil {
		return fmt.Errorf("-quality: %w", err)
	}

	b, err := params.NewBuilder(buf.Width, buf.Height)
	if err != nil {
		return err
	}
	if b, err = b.WithOutputFormat(outFormat); err != nil {
		return err
	}
	if *resolutions > 0 {
		if b, err = b.WithResolutions(*resolutions); err != nil {
			return err
		}
	}
	if b, err = b.WithCompressionRatios(ratioValues); err != nil {
		return err
	}
	if b, err = b.WithQualityValues(qualityValues); err != nil {
		return err
	}
	cfg := b.Build()

	g, err := newGateway(cf, stderr)
	if err != nil {
		return err
	}
	if err := g.EncodeFile(buf, cfg, rest[1]); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Encoded %dx%d (%s, %d resolutions, %d layers) to %s\n",
		buf.Width, buf.Height, cfg.OutputFormat(), cfg.NumResolutions(), cfg.NumLayers(), rest[1])
	return nil
}

func runDecode(args []string, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("decode", stderr, &cf)
	reduce := fs.Int("reduce", 0, "resolution levels to skip")
	layers := fs.Int("layers", 0, "quality layers to decode (0 = all)")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	opts, err := params.NewDecodeOptions().WithSkipResolutions(*reduce)
	if err != nil {
		return err
	}
	if opts, err = opts.WithLayersToDecode(*layers); err != nil {
		return err
	}

	g, err := newGateway(cf, stderr)
	if err != nil {
		return err
	}
	buf, err := g.Decode(gateway.FromFile(rest[0]), opts.WithoutPremultiplication())
	if err != nil {
		return err
	}

	out, err := os.Create(rest[1])
	if err != nil {
		return err
	}
	if err := png.Encode(out, buf.Image()); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Decoded %dx%d (alpha %t) to %s\n", buf.Width, buf.Height, buf.HasAlpha, rest[1])
	return nil
}

// parseFloats parses a comma-separated list; empty input yields nil.
func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
