package catalog

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/atomic"

	"github.com/milaboratories/clonotype-browser/frame"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
)

var ErrNotLoaded = errors.New("catalog was not loaded from a file")

// Store holds the current snapshot. Readers never block on a reload.
type Store struct {
	driver     *frame.MemoryDriver
	logger     log.Logger
	current    atomic.Value
	generation atomic.Int64

	mutex     sync.Mutex
	v         *viper.Viper
	listeners []func(*Snapshot)
	// replaced snapshot whose frames stay readable until the next swap
	retired *Snapshot
}

func NewStore(driver *frame.MemoryDriver, logger log.Logger) *Store {
	s := &Store{driver: driver, logger: logger}
	s.current.Store(&Snapshot{})
	return s
}

func (s *Store) Driver() *frame.MemoryDriver {
	return s.driver
}

func (s *Store) Snapshot() *Snapshot {
	return s.current.Load().(*Snapshot)
}

func (s *Store) Outputs() model.Outputs {
	return s.Snapshot().Outputs
}

// Generation is incremented on every snapshot swap.
func (s *Store) Generation() int64 {
	return s.generation.Load()
}

// OnChange registers a listener called after every swap.
func (s *Store) OnChange(fn func(*Snapshot)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set makes snapshot current. The frames of the snapshot it replaces are
// released on the following swap, so reads that started on the old outputs
// can still complete.
func (s *Store) Set(snapshot *Snapshot) {
	s.mutex.Lock()
	previous := s.Snapshot()
	s.current.Store(snapshot)
	generation := s.generation.Inc()
	expired := s.retired
	s.retired = previous
	listeners := append([]func(*Snapshot){}, s.listeners...)
	s.mutex.Unlock()

	if expired != nil {
		expired.release(s.driver)
	}

	if !sameTable(previous.Outputs.OverlapTable, snapshot.Outputs.OverlapTable) {
		s.logger.Info("overlap table changed",
			"overlapTable", tableName(snapshot.Outputs.OverlapTable),
			"generation", generation)
	}

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Load reads the catalog file and remembers it for Reload and Watch.
func (s *Store) Load(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "unable to read catalog %s", path)
	}
	snapshot, err := fromViper(v, s.driver)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.v = v
	s.mutex.Unlock()

	s.Set(snapshot)
	s.logger.Info("catalog loaded", "file", path)
	return nil
}

// Reload re-reads the file given to Load.
func (s *Store) Reload() error {
	s.mutex.Lock()
	v := s.v
	s.mutex.Unlock()
	if v == nil {
		return ErrNotLoaded
	}

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "unable to read catalog %s", v.ConfigFileUsed())
	}
	return s.refresh(v)
}

func (s *Store) refresh(v *viper.Viper) error {
	snapshot, err := fromViper(v, s.driver)
	if err != nil {
		return err
	}
	s.Set(snapshot)
	return nil
}

// Watch reloads the catalog whenever its file changes. A file that fails to
// decode keeps the previous snapshot.
func (s *Store) Watch() error {
	s.mutex.Lock()
	v := s.v
	s.mutex.Unlock()
	if v == nil {
		return ErrNotLoaded
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := s.refresh(v); err != nil {
			s.logger.Error("unable to reload catalog",
				"file", e.Name,
				"error", err)
			return
		}
		s.logger.Info("catalog reloaded", "file", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()
	return nil
}

func sameTable(a, b *model.TableHandle) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func tableName(t *model.TableHandle) string {
	if t == nil {
		return ""
	}
	return string(*t)
}
