// Command csv2json converts CSV input to JSON lines, one object per record.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvreader/pkg/csv"
)

func main() {
	log.SetFlags(0)
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "csv2json [file]",
		Short:         "Convert CSV records to JSON lines",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), args)
			if err != nil {
				return err
			}
			return run(cfg, in, out)
		},
	}
	configureFlags(cmd.Flags())
	return cmd
}

// sniffSize is how much input --sniff examines.
const sniffSize = 4096

// run streams every record of the configured input to out.
func run(cfg *Config, in io.Reader, out io.Writer) error {
	src := in
	if cfg.Input != "" && cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	opts := cfg.Reader
	if cfg.Sniff {
		br := bufio.NewReaderSize(src, sniffSize)
		sample, err := br.Peek(sniffSize)
		if err != nil && err != io.EOF {
			return err
		}
		sniffer := csv.NewSniffer(string(sample))
		if !cfg.DelimiterSet {
			opts.Delimiter = sniffer.DetectDelimiter()
		}
		if !cfg.HeadersSet {
			opts.HasHeaders = sniffer.HasHeader()
		}
		src = br
	}

	reader, err := csv.NewReaderWithOptions(src, opts)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	err = encode(reader, w, cfg)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func encode(reader *csv.Reader, w *bufio.Writer, cfg *Config) error {
	encoder := gojay.NewEncoder(w)
	for record, err := range reader.All() {
		if err != nil {
			return err
		}
		obj, err := toJSON(record, cfg)
		if err != nil {
			return fmt.Errorf("record %d: %w", reader.CurrentRecordIndex(), err)
		}
		if err := encoder.EncodeObject(obj); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

type jsonField struct {
	key   string
	value any
}

type jsonRecord []jsonField

// toJSON names the selected fields and applies the column conversions.
// Empty values of converted columns become null.
func toJSON(record *csv.Record, cfg *Config) (jsonRecord, error) {
	selected := cfg.Columns.Select(record)
	obj := make(jsonRecord, 0, len(selected))
	for _, i := range selected {
		name, err := record.Name(i)
		if err != nil {
			return nil, err
		}

		field := jsonField{key: name}
		if cfg.KeyCase != nil {
			field.key = cfg.KeyCase(name)
		}

		value, _ := record.Get(i)
		switch conv, typed := cfg.Types[name]; {
		case !typed:
			field.value = value
		case value == "":
			// null
		default:
			if field.value, err = record.Convert(i, conv); err != nil {
				return nil, err
			}
		}
		obj = append(obj, field)
	}
	return obj, nil
}

func (r jsonRecord) MarshalJSONObject(enc *gojay.Encoder) {
	for _, f := range r {
		switch v := f.value.(type) {
		case nil:
			enc.AddNullKey(f.key)
		case string:
			enc.AddStringKey(f.key, v)
		case bool:
			enc.AddBoolKey(f.key, v)
		case byte:
			enc.AddUint8Key(f.key, v)
		case int16:
			enc.AddInt16Key(f.key, v)
		case int32:
			enc.AddInt32Key(f.key, v)
		case int64:
			enc.AddInt64Key(f.key, v)
		case float32:
			enc.AddFloat32Key(f.key, v)
		case float64:
			enc.AddFloat64Key(f.key, v)
		case time.Time:
			enc.AddTimeKey(f.key, &v, time.RFC3339Nano)
		case fmt.Stringer:
			enc.AddStringKey(f.key, v.String())
		default:
			enc.AddInterfaceKey(f.key, v)
		}
	}
}

func (r jsonRecord) IsNil() bool {
	return r == nil
}
