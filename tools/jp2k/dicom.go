package main

import (
	"fmt"
	"io"

	"github.com/cocosip/go-dicom/pkg/dicom/dataset"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/dicom/writer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"

	engines "github.com/cocosip/go-jp2k/codec"
	"github.com/cocosip/go-jp2k/dicom"
)

func runDICOM(args []string, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("dicom", stderr, &cf)
	lossy := fs.Bool("lossy", false, "use JPEG 2000 (.91) instead of JPEG 2000 Lossless (.90)")
	ratio := fs.Float64("ratio", 20, "compression ratio for -lossy")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	e, err := engines.Get(cf.engine)
	if err != nil {
		return err
	}

	parseResult, err := parser.ParseFile(rest[0],
		parser.WithReadOption(parser.ReadAll),
		parser.WithLargeObjectSize(100*1024*1024),
	)
	if err != nil {
		return fmt.Errorf("failed to read DICOM file: %w", err)
	}
	ds := parseResult.Dataset
	sourceTS := parseResult.TransferSyntax

	targetTS := transfer.JPEG2000Lossless
	if *lossy {
		targetTS = transfer.JPEG2000
	}
	c := dicom.NewCodecWithEngine(targetTS, !*lossy, e).WithDefaultRatio(*ratio)

	registry := codec.GetGlobalRegistry()
	registry.RegisterCodec(targetTS, c)

	if cf.verbose {
		describe(stderr, ds)
	}

	transcoder := codec.NewTranscoder(sourceTS, targetTS, codec.WithCodecRegistry(registry))
	newDS, err := transcoder.Transcode(ds)
	if err != nil {
		return fmt.Errorf("transcode failed: %w", err)
	}
	if err := writer.WriteFile(rest[1], newDS, writer.WithTransferSyntax(targetTS)); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(stdout, "Transcoded %s -> %s (%s) to %s\n",
		sourceTS.UID().UID(), targetTS.UID().UID(), c.Name(), rest[1])
	return nil
}

func describe(w io.Writer, ds *dataset.Dataset) {
	rows := ds.TryGetUInt16(tag.Rows, 0)
	cols := ds.TryGetUInt16(tag.Columns, 0)
	bits := ds.TryGetUInt16(tag.BitsStored, 0)
	samples := ds.TryGetUInt16(tag.SamplesPerPixel, 0)
	fmt.Fprintf(w, "Image: %d x %d, %d bits stored, %d samples per pixel\n", cols, rows, bits, samples)
	if pi, ok := ds.GetString(tag.PhotometricInterpretation); ok {
		fmt.Fprintf(w, "Photometric Interpretation: %s\n", pi)
	}
}
