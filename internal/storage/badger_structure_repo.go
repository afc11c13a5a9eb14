package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/voxel-designer/internal/logging"
)

// Префикс ключей структур в BadgerDB
const badgerKeyPrefix = "structure:"

// BadgerStructureRepo реализует StructureRepo поверх встраиваемой
// BadgerDB. Записи хранятся как JSON, сжатый zstd: списки блоков
// крупных структур сжимаются в разы.
type BadgerStructureRepo struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	enc     *zstd.Encoder
	dec     *zstd.Decoder
	log     *logging.Logger
}

// NewBadgerStructureRepo открывает (или создает) базу структур в
// каталоге dataPath/structures.
func NewBadgerStructureRepo(dataPath string) (*BadgerStructureRepo, error) {
	dbPath := filepath.Join(dataPath, "structures")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd-кодер: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd-декодер: %w", err)
	}

	log := logging.GetStorageLogger()
	log.Info("💾 BadgerDB хранилище структур открыто: %s", dbPath)

	return &BadgerStructureRepo{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		enc:     enc,
		dec:     dec,
		log:     log,
	}, nil
}

// Save сохраняет структуру в BadgerDB
func (r *BadgerStructureRepo) Save(ctx context.Context, rec *StructureRecord) error {
	if rec == nil || rec.Name == "" {
		return fmt.Errorf("недействительная запись структуры")
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации структуры %s: %w", rec.Name, err)
	}
	payload := r.enc.EncodeAll(raw, nil)

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+rec.Name), payload)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи структуры %s: %w", rec.Name, err)
	}
	return nil
}

// Load загружает структуру по имени
func (r *BadgerStructureRepo) Load(ctx context.Context, name string) (*StructureRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("пустое имя структуры")
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var rec StructureRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw, err := r.dec.DecodeAll(val, nil)
			if err != nil {
				return fmt.Errorf("ошибка распаковки: %w", err)
			}
			return json.Unmarshal(raw, &rec)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrStructureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения структуры %s: %w", name, err)
	}
	return &rec, nil
}

// List перебирает все ключи структур и возвращает краткие записи,
// отсортированные по имени.
func (r *BadgerStructureRepo) List(ctx context.Context) ([]StructureSummary, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var summaries []StructureSummary
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(badgerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				raw, err := r.dec.DecodeAll(val, nil)
				if err != nil {
					return err
				}
				var rec StructureRecord
				if err := json.Unmarshal(raw, &rec); err != nil {
					return err
				}
				summaries = append(summaries, rec.Summary())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка перечисления структур: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

// Delete удаляет структуру по имени
func (r *BadgerStructureRepo) Delete(ctx context.Context, name string) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	key := []byte(badgerKeyPrefix + name)
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err == badger.ErrKeyNotFound {
		return ErrStructureNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка удаления структуры %s: %w", name, err)
	}
	return nil
}

// Close закрывает базу и кодеки
func (r *BadgerStructureRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}
	r.isReady = false

	r.enc.Close()
	r.dec.Close()
	r.log.Debug("BadgerDB хранилище структур закрыто: %s", r.dbPath)
	return r.db.Close()
}
