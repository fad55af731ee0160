package eventquery

import "testing"

func sampleRecords() []Record {
	return []Record{
		{ProgramName: "shimprobe", PID: 1, OpCode: "Exec", Status: "Allowed", PrimaryPath: "/build/src/a.c"},
		{ProgramName: "shimprobe", PID: 2, OpCode: "Open", Status: "Denied", PrimaryPath: "/etc/passwd"},
		{ProgramName: "shimprobe", PID: 3, OpCode: "Open", Status: "Allowed", PrimaryPath: "/build/src/b.c"},
	}
}

func TestQueryFiltersByOpCode(t *testing.T) {
	result, err := Query(sampleRecords(), `$[?(@.opCode=="Open")].primaryPath`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	paths, ok := result.([]interface{})
	if !ok {
		t.Fatalf("result type = %T, want []interface{}", result)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
}

func TestBlockingFiltersByStatus(t *testing.T) {
	blocked := Blocking(sampleRecords(), "Denied")
	if len(blocked) != 1 || blocked[0].PID != 2 {
		t.Fatalf("Blocking = %+v, want one record with PID 2", blocked)
	}
}
