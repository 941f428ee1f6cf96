package pycfr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/tengshiquan/pycfr/gametree"
)

// Strategy files hold one decision context per line:
//
//	<context> <p_raise> <p_call> <p_fold>
//
// Note that the probabilities are written in the reverse of the
// Distribution index order (Fold, Call, Raise).
var fileOrder = [gametree.NumActions]gametree.Action{
	gametree.Raise,
	gametree.Call,
	gametree.Fold,
}

const (
	commentPrefix  = "#"
	tokensPerLine  = 1 + gametree.NumActions
	maxLineSize    = 1 << 20
	gzipFileSuffix = ".gz"
)

// LoadFromFile replaces the strategy's policy with the contents of
// filename. Files ending in .gz are decompressed.
// If an error occurs the strategy is left unchanged.
func (s *Strategy) LoadFromFile(filename string) error {
	glog.V(1).Infof("Loading strategy for player %d from: %v", s.player, filename)
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open strategy %v", filename)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, gzipFileSuffix) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "decompress strategy %v", filename)
		}
		defer gz.Close()
		r = gz
	}

	if err := s.Load(r); err != nil {
		return errors.Wrapf(err, "load strategy %v", filename)
	}

	glog.V(1).Infof("Loaded %d contexts for player %d", len(s.policy), s.player)
	return nil
}

// Load replaces the strategy's policy with the one read from r.
// If an error occurs the strategy is left unchanged.
func (s *Strategy) Load(r io.Reader) error {
	policy := make(map[string]Distribution)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) != tokensPerLine {
			return errors.Wrapf(ErrInvalidInput, "line %d: expected %d tokens, got %d",
				lineNum, tokensPerLine, len(tokens))
		}

		var d Distribution
		for i, a := range fileOrder {
			p, err := strconv.ParseFloat(tokens[i+1], 64)
			if err != nil {
				return errors.Wrapf(ErrInvalidInput, "line %d: %v", lineNum, err)
			}
			d[a] = p
		}

		policy[tokens[0]] = d
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read strategy")
	}

	s.policy = policy
	return nil
}

// SaveToFile writes the strategy to filename, compressing it if the name
// ends in .gz. The file is flushed and closed before returning.
func (s *Strategy) SaveToFile(filename string) error {
	glog.V(1).Infof("Saving strategy for player %d to: %v", s.player, filename)
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create strategy %v", filename)
	}

	if err := s.saveTo(f, strings.HasSuffix(filename, gzipFileSuffix)); err != nil {
		f.Close()
		return errors.Wrapf(err, "save strategy %v", filename)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close strategy %v", filename)
	}

	return nil
}

func (s *Strategy) saveTo(f io.Writer, compress bool) error {
	if !compress {
		return s.Save(f)
	}

	gz := gzip.NewWriter(f)
	if err := s.Save(gz); err != nil {
		gz.Close()
		return err
	}

	return gz.Close()
}

// Save writes the strategy to w with one line per decision context, in
// ascending order of context.
func (s *Strategy) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, context := range s.Keys() {
		if !isValidFileKey(context) {
			return errors.Wrapf(ErrInvalidInput, "context %q cannot be written to a strategy file", context)
		}

		d := s.policy[context]
		_, err := fmt.Fprintf(bw, "%s %.9f %.9f %.9f\n", context,
			d.Prob(fileOrder[0]), d.Prob(fileOrder[1]), d.Prob(fileOrder[2]))
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// isValidFileKey returns true if context is read back as itself.
func isValidFileKey(context string) bool {
	if context == "" || strings.HasPrefix(context, commentPrefix) {
		return false
	}

	return strings.IndexFunc(context, unicode.IsSpace) < 0
}
