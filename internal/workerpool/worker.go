package workerpool

import (
	"sync"

	"go.uber.org/zap"
)

// Worker pulls tasks off the shared channel and runs them.
type Worker struct {
	ID       int
	taskChan chan *Task
	quit     chan bool
	log      Log
}

// NewWorker returns a new worker instance.
func NewWorker(channel chan *Task, ID int, log Log) *Worker {
	return &Worker{
		ID:       ID,
		taskChan: channel,
		quit:     make(chan bool),
		log:      log,
	}
}

// Start runs the worker until the task channel is closed.
func (wr *Worker) Start(wg *sync.WaitGroup) {
	wr.log.Info("starting worker", zap.Int("worker", wr.ID))

	wg.Add(1)
	go func() {
		defer wg.Done()
		for task := range wr.taskChan {
			wr.process(task)
		}
	}()
}

// StartBackground runs the worker until Stop is called.
func (wr *Worker) StartBackground() {
	wr.log.Info("starting worker", zap.Int("worker", wr.ID))

	for {
		select {
		case task := <-wr.taskChan:
			wr.process(task)
		case <-wr.quit:
			return
		}
	}
}

// Stop quits the worker.
func (wr *Worker) Stop() {
	wr.log.Info("closing worker", zap.Int("worker", wr.ID))
	go func() {
		wr.quit <- true
	}()
}

func (wr *Worker) process(task *Task) {
	task.process()
	if task.Err != nil {
		wr.log.Info("task failed: ", zap.Int("worker", wr.ID), zap.Error(task.Err))
	}
}
