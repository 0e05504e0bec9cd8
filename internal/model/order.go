package model

import "fmt"

// Order is the active sort key of the process table. The set is closed
// and cyclic: Next and Previous are total, so stepping in either
// direction always comes back around.
type Order int

const (
	OrderPid Order = iota
	OrderName
	OrderCommand
	OrderThreads
	OrderCPU
)

func (o Order) Next() Order {
	switch o {
	case OrderPid:
		return OrderName
	case OrderName:
		return OrderCommand
	case OrderCommand:
		return OrderThreads
	case OrderThreads:
		return OrderCPU
	default:
		return OrderPid
	}
}

func (o Order) Previous() Order {
	switch o {
	case OrderPid:
		return OrderCPU
	case OrderCPU:
		return OrderThreads
	case OrderThreads:
		return OrderCommand
	case OrderCommand:
		return OrderName
	default:
		return OrderPid
	}
}

func (o Order) String() string {
	switch o {
	case OrderPid:
		return "pid"
	case OrderName:
		return "name"
	case OrderCommand:
		return "command"
	case OrderThreads:
		return "threads"
	case OrderCPU:
		return "cpu"
	default:
		return "pid"
	}
}

// ParseOrder maps a config value to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "pid", "":
		return OrderPid, nil
	case "name":
		return OrderName, nil
	case "command":
		return OrderCommand, nil
	case "threads":
		return OrderThreads, nil
	case "cpu":
		return OrderCPU, nil
	}
	return OrderPid, fmt.Errorf("unknown sort key %q", s)
}

// Less reports whether a sorts before b under o. Every key other than
// pid breaks ties by pid so the row sequence is deterministic.
func (o Order) Less(a, b Proc) bool {
	switch o {
	case OrderName:
		if a.Program != b.Program {
			return a.Program < b.Program
		}
	case OrderCommand:
		if a.Command != b.Command {
			return a.Command < b.Command
		}
	case OrderThreads:
		if a.Threads != b.Threads {
			return a.Threads < b.Threads
		}
	case OrderCPU:
		if a.CPU != b.CPU {
			return a.CPU < b.CPU
		}
	}
	return a.Pid < b.Pid
}
