package stub

import (
	"sort"
	"sync"
)

// TaskStorage holds scheduled tasks per queue, keyed by task name the
// way the real gateway does, so repeated creates with the same name
// overwrite rather than duplicate.
type TaskStorage struct {
	mu     sync.RWMutex
	queues map[string]map[string]Task // queue -> task name -> task
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		queues: make(map[string]map[string]Task),
	}
}

func (s *TaskStorage) Reset(queue string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, queue)
}

func (s *TaskStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues = make(map[string]map[string]Task)
}

func (s *TaskStorage) Put(queue string, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[queue]
	if !ok {
		q = make(map[string]Task)
		s.queues[queue] = q
	}
	q[task.Name] = task
}

func (s *TaskStorage) List(queue string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := s.queues[queue]
	tasks := make([]Task, 0, len(q))
	for _, task := range q {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].ScheduleTime != tasks[j].ScheduleTime {
			return tasks[i].ScheduleTime < tasks[j].ScheduleTime
		}
		return tasks[i].Name < tasks[j].Name
	})

	return tasks
}

func (s *TaskStorage) Delete(queue, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[queue]
	if !ok {
		return false
	}
	if _, ok := q[name]; !ok {
		return false
	}
	delete(q, name)

	return true
}
