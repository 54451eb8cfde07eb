package tracker

import "time"

// DemoDates are the four sessions marked by SeedDemo.
var DemoDates = []time.Time{
	time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
}

// SeedDemo enrolls four students and marks them across DemoDates.
// Errors are already logged by the store, so they are ignored here.
func SeedDemo(s *Store) {
	_ = s.AddStudent("S001", "Alice Johnson")
	_ = s.AddStudent("S002", "Bob Smith")
	_ = s.AddStudent("S003", "Carol White")
	_ = s.AddStudent("S004", "David Brown")

	s.MarkBulk(map[string]string{"S001": "P", "S002": "P", "S003": "A", "S004": "L"}, DemoDates[0])
	s.MarkBulk(map[string]string{"S001": "P", "S002": "L", "S003": "P", "S004": "A"}, DemoDates[1])
	s.MarkBulk(map[string]string{"S001": "P", "S002": "A", "S003": "A", "S004": "P"}, DemoDates[2])
	s.MarkBulk(map[string]string{"S001": "P", "S002": "P", "S003": "L", "S004": "A"}, DemoDates[3])
}
