package main

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jrhy/bstmap"
)

const defaultSnapshotSlots = 16

var errUsage = errors.New("wrong number of arguments")

// session holds one map and applies script lines to it, writing results to
// out one line per command. Named snapshots are deep copies kept in an LRU,
// so only the most recently used few survive.
type session struct {
	m         *bstmap.OrderedMap[string, string]
	snapshots *lru.Cache
	out       io.Writer
	logger    *slog.Logger
}

func newSession(out io.Writer, logger *slog.Logger, debug bool) (*session, error) {
	m, err := bstmap.NewWithConfig[string, string](bstmap.Config[string]{
		KeyOrder: cmp.Compare[string],
		Debug:    debug,
	})
	if err != nil {
		return nil, err
	}
	snapshots, err := lru.NewWithEvict(defaultSnapshotSlots, func(key, _ interface{}) {
		logger.Info("snapshot evicted", "name", key)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: %w", err)
	}
	return &session{m: m, snapshots: snapshots, out: out, logger: logger}, nil
}

func (s *session) snapshot(name string) (*bstmap.OrderedMap[string, string], error) {
	v, ok := s.snapshots.Get(name)
	if !ok {
		return nil, fmt.Errorf("no snapshot %q", name)
	}
	return v.(*bstmap.OrderedMap[string, string]), nil
}

func (s *session) runAll(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.exec(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	s.logger.Info("script finished", "lines", lineNo, "size", s.m.Size())
	return nil
}

// exec runs a single command. A missing key reported by "at" is printed
// as a result rather than returned, so scripts can exercise it.
func (s *session) exec(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	s.logger.Debug("exec", "cmd", cmd, "args", args)

	arity := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: %w", cmd, errUsage)
		}
		return nil
	}
	value := func() string {
		return strings.Join(args[1:], " ")
	}

	switch cmd {
	case "insert":
		if err := arity(2); err != nil {
			return err
		}
		s.println(strconv.FormatBool(s.m.Insert(args[0], value())))
	case "set":
		if err := arity(2); err != nil {
			return err
		}
		old, added := s.m.Set(args[0], value())
		if added {
			s.println("added")
		} else {
			s.println("replaced " + old)
		}
	case "access":
		if err := arity(1); err != nil {
			return err
		}
		p := s.m.Access(args[0])
		if len(args) > 1 {
			*p = value()
		}
		s.println(*p)
	case "get":
		if err := arity(1); err != nil {
			return err
		}
		if v, ok := s.m.Get(args[0]); ok {
			s.println(v)
		} else {
			s.println("(absent)")
		}
	case "at":
		if err := arity(1); err != nil {
			return err
		}
		v, err := s.m.At(args[0])
		if errors.Is(err, bstmap.ErrKeyNotFound) {
			s.logger.Warn("at: missing key", "key", args[0])
			s.println("error: " + err.Error())
			return nil
		}
		s.println(v)
	case "erase":
		if err := arity(1); err != nil {
			return err
		}
		s.println(strconv.FormatBool(s.m.Delete(args[0])))
	case "keys":
		s.println(strings.Join(s.m.Keys(), " "))
	case "values":
		s.println(strings.Join(s.m.Values(), " "))
	case "size":
		s.println(strconv.Itoa(s.m.Size()))
	case "empty":
		s.println(strconv.FormatBool(s.m.IsEmpty()))
	case "clear":
		s.m.Clear()
	case "dump":
		fmt.Fprint(s.out, s.m.Dump())
	case "snapshot":
		if err := arity(1); err != nil {
			return err
		}
		s.snapshots.Add(args[0], s.m.Clone())
	case "restore":
		if err := arity(1); err != nil {
			return err
		}
		snap, err := s.snapshot(args[0])
		if err != nil {
			return err
		}
		s.m = snap.Clone()
	case "take":
		// the snapshot's entries move into the live map, leaving it empty
		if err := arity(1); err != nil {
			return err
		}
		snap, err := s.snapshot(args[0])
		if err != nil {
			return err
		}
		s.m = snap.Move()
	case "diff":
		if err := arity(1); err != nil {
			return err
		}
		snap, err := s.snapshot(args[0])
		if err != nil {
			return err
		}
		err = s.m.DiffIter(snap, nil, func(added, removed bool, key, addedValue, removedValue string) (bool, error) {
			switch {
			case added:
				s.println("+ " + key + " " + addedValue)
			case removed:
				s.println("- " + key + " " + removedValue)
			default:
				s.println("~ " + key + " " + removedValue + " -> " + addedValue)
			}
			return true, nil
		})
		if err != nil {
			return err
		}
	case "fingerprint":
		fp, err := s.m.Fingerprint()
		if err != nil {
			return err
		}
		s.println(fp)
	case "check":
		if err := s.m.Check(); err != nil {
			return err
		}
		s.println("ok")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (s *session) println(line string) {
	fmt.Fprintln(s.out, line)
}
