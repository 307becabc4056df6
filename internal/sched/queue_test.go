package sched

import "testing"

func TestPollRunsDueTasksInOrder(t *testing.T) {
	q := New()
	var order []string

	q.At(2, func() { order = append(order, "b") })
	q.At(1, func() { order = append(order, "a") })
	q.At(3, func() { order = append(order, "c") })

	if ran := q.Poll(2.5); ran != 2 {
		t.Fatalf("Poll(2.5) ran %d tasks, expected 2", ran)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("Unexpected order: %v", order)
	}
	if q.Len() != 1 {
		t.Errorf("Expected 1 pending task, got %d", q.Len())
	}

	q.Poll(3)
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("Task c should run at t=3, order=%v", order)
	}
}

func TestEqualDueTimesKeepInsertionOrder(t *testing.T) {
	q := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.At(1, func() { order = append(order, i) })
	}
	q.Poll(1)

	for i, v := range order {
		if v != i {
			t.Fatalf("Expected FIFO for equal due times, got %v", order)
		}
	}
}

func TestTasksFireOnce(t *testing.T) {
	q := New()
	count := 0
	q.After(0.5, func() { count++ })

	q.Poll(0.4)
	if count != 0 {
		t.Error("Task ran before its due time")
	}
	q.Poll(0.5)
	q.Poll(10)
	if count != 1 {
		t.Errorf("Task should fire exactly once, fired %d times", count)
	}
}

func TestAfterIsRelativeToLastPoll(t *testing.T) {
	q := New()
	q.Poll(5)

	fired := false
	q.After(1, func() { fired = true })
	q.Poll(5.9)
	if fired {
		t.Error("Task fired too early")
	}
	q.Poll(6)
	if !fired {
		t.Error("Task should fire one second after the last poll")
	}
}

func TestTaskScheduledDuringPollThatIsAlreadyDue(t *testing.T) {
	q := New()
	second := false
	q.At(1, func() {
		q.After(0, func() { second = true })
	})

	q.Poll(1)
	if !second {
		t.Error("A task scheduled for now from inside a task should run in the same poll")
	}
}

func TestClockNeverRewinds(t *testing.T) {
	q := New()
	q.Poll(3)
	q.Poll(1)
	if q.Now() != 3 {
		t.Errorf("Now() = %v, expected 3", q.Now())
	}

	q.After(1, func() {})
	q.Reset()
	if q.Len() != 0 || q.Now() != 0 {
		t.Error("Reset should clear tasks and clock")
	}
}
