package vision

import "sync"

// depthEstimator is what the stream needs from the service. Narrowed for
// tests.
type depthEstimator interface {
	ProcessImageWithCleanup(imagePath string, objects []DetectedObject, cleanup bool) ([]ObjectDepth, error)
}

type depthJob struct {
	imagePath string
	objects   []DetectedObject
}

// DepthStream runs depth requests on a worker goroutine so the control
// loop never blocks on the estimator. At most one request is in flight;
// frames submitted while busy are dropped. The newest completed result is
// kept for pickup.
type DepthStream struct {
	service depthEstimator
	jobs    chan depthJob
	done    chan struct{}

	mu      sync.Mutex
	latest  []ObjectDepth
	fresh   bool
	lastErr error
}

func NewDepthStream(service depthEstimator) *DepthStream {
	s := &DepthStream{
		service: service,
		jobs:    make(chan depthJob, 1),
		done:    make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *DepthStream) worker() {
	defer close(s.done)
	for job := range s.jobs {
		depths, err := s.service.ProcessImageWithCleanup(job.imagePath, job.objects, true)
		s.mu.Lock()
		if err != nil {
			s.lastErr = err
		} else {
			s.latest = depths
			s.fresh = true
			s.lastErr = nil
		}
		s.mu.Unlock()
	}
}

// Submit queues one frame for depth estimation. Returns false when the
// worker is still busy with the previous frame; the caller should just
// move on.
func (s *DepthStream) Submit(imagePath string, objects []DetectedObject) bool {
	select {
	case s.jobs <- depthJob{imagePath: imagePath, objects: append([]DetectedObject(nil), objects...)}:
		return true
	default:
		return false
	}
}

// Latest returns the newest completed result. The fresh flag is true only
// the first time a given result is picked up.
func (s *DepthStream) Latest() ([]ObjectDepth, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := s.fresh
	s.fresh = false
	return append([]ObjectDepth(nil), s.latest...), fresh
}

// Err returns the most recent worker error, if the last job failed.
func (s *DepthStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close stops the worker after the in-flight job, if any, completes.
func (s *DepthStream) Close() {
	close(s.jobs)
	<-s.done
}
