package util

import (
	"sync"

	"github.com/influxdata/influxdb-client-go/api"
	"github.com/influxdata/influxdb-client-go/api/write"
)

var (
	_ api.WriteAPI = (*MockWriteAPI)(nil)
	_ api.WriteAPI = (*PointRecorder)(nil)
)

// MockWriteAPI discards everything. It stands in for an influx writer when
// metrics are not configured.
type MockWriteAPI struct{}

func (m *MockWriteAPI) WriteRecord(line string) {}
func (m *MockWriteAPI) WritePoint(point *write.Point) {}
func (m *MockWriteAPI) Flush() {}
func (m *MockWriteAPI) Close() {}
func (m *MockWriteAPI) Errors() <-chan error { return nil }

// PointRecorder keeps the points written to it.
type PointRecorder struct {
	mu     sync.Mutex
	points []*write.Point
}

func (p *PointRecorder) WriteRecord(line string) {}

func (p *PointRecorder) WritePoint(point *write.Point) {
	p.mu.Lock()
	p.points = append(p.points, point)
	p.mu.Unlock()
}

func (p *PointRecorder) Flush() {}
func (p *PointRecorder) Close() {}
func (p *PointRecorder) Errors() <-chan error { return nil }

func (p *PointRecorder) Points() []*write.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	ret := make([]*write.Point, len(p.points))
	copy(ret, p.points)
	return ret
}
