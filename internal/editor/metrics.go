package editor

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/annel0/voxel-designer/internal/logging"
)

// Metrics инкапсулирует Prometheus-метрики сессии редактора.
// Счётчики команд инкрементируются самой сессией; gauge-метрики
// (размер сетки, кеш материалов) обновляет экспортер по таймеру.
type Metrics struct {
	placements prometheus.Counter
	removals   prometheus.Counter
	undos      prometheus.Counter
	redos      prometheus.Counter
	noops      prometheus.Counter
	gridSize   prometheus.Gauge
	materials  prometheus.Gauge
}

// NewMetrics создает набор метрик редактора (без регистрации)
func NewMetrics() *Metrics {
	return &Metrics{
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "designer",
			Name:      "blocks_placed_total",
			Help:      "Общее число установленных блоков.",
		}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "designer",
			Name:      "blocks_removed_total",
			Help:      "Общее число удалённых блоков.",
		}),
		undos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "designer",
			Name:      "undo_total",
			Help:      "Число выполненных отмен.",
		}),
		redos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "designer",
			Name:      "redo_total",
			Help:      "Число выполненных повторов.",
		}),
		noops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "designer",
			Name:      "rejected_noops_total",
			Help:      "Отклонённые no-op операции: занятая ячейка, пустой стек, вырожденная фигура.",
		}),
		gridSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "designer",
			Name:      "grid_blocks",
			Help:      "Текущее число блоков в сетке.",
		}),
		materials: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "designer",
			Name:      "cached_materials",
			Help:      "Число материалов в кеше пула ресурсов.",
		}),
	}
}

// SessionStats отдаёт статус процесса для эндпоинта /status
type SessionStats struct {
	StartTime time.Time
}

// NewSessionStats создает новый экземпляр статистики
func NewSessionStats() *SessionStats {
	return &SessionStats{StartTime: time.Now()}
}

// Uptime возвращает время работы сессии
func (ss *SessionStats) Uptime() time.Duration {
	return time.Since(ss.StartTime)
}

// MemoryUsageMB возвращает использование памяти в MB
func (ss *SessionStats) MemoryUsageMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// CPUUsagePercent возвращает использование CPU процессом в процентах
func (ss *SessionStats) CPUUsagePercent() (float64, error) {
	pid := int32(os.Getpid())
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, пробуем системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}
	return cpuPercent, nil
}

// MetricsExporter управляет HTTP-эндпоинтами /metrics (Prometheus) и
// /status (JSON со статистикой процесса) и периодически обновляет
// gauge-метрики из сессии.
type MetricsExporter struct {
	session *Session
	stats   *SessionStats
	reg     *prometheus.Registry
	quit    chan struct{}
	done    chan struct{}
}

// NewMetricsExporter создаёт экспортер, но не запускает HTTP-сервер.
func NewMetricsExporter(session *Session) *MetricsExporter {
	me := &MetricsExporter{
		session: session,
		stats:   NewSessionStats(),
		reg:     prometheus.NewRegistry(),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	m := session.Metrics()
	me.reg.MustRegister(m.placements, m.removals, m.undos, m.redos, m.noops, m.gridSize, m.materials)
	return me
}

// StartHTTP запускает HTTP-эндпоинты на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (m *MetricsExporter) StartHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", m.handleStatus)

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	go m.loop()
}

// Stop останавливает обновление метрик. HTTP-сервер при этом не
// завершается — он живёт столько же, сколько процесс.
func (m *MetricsExporter) Stop() {
	close(m.quit)
	<-m.done
}

func (m *MetricsExporter) handleStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, _ := m.stats.CPUUsagePercent()
	resp := map[string]interface{}{
		"uptime_seconds": int(m.stats.Uptime().Seconds()),
		"memory_mb":      m.stats.MemoryUsageMB(),
		"cpu_percent":    cpuPct,
		"grid_blocks":    m.session.Grid().Size(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (m *MetricsExporter) loop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	defer close(m.done)

	metrics := m.session.Metrics()
	for {
		select {
		case <-ticker.C:
			metrics.gridSize.Set(float64(m.session.Grid().Size()))
			metrics.materials.Set(float64(m.session.Pool().MaterialCount()))
		case <-m.quit:
			return
		}
	}
}
