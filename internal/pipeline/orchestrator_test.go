package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRouteFile(t *testing.T) {
	tests := []struct {
		name   string
		entity EntityType
		ok     bool
	}{
		{"customers_2024.csv", EntityCustomers, true},
		{"CUSTOMER_export.xlsx", EntityCustomers, true},
		{"клиенты.csv", EntityCustomers, true},
		{"products.csv", EntityProducts, true},
		{"товары_март.xlsx", EntityProducts, true},
		{"orders_q1.csv", EntityOrders, true},
		{"заказы.csv", EntityOrders, true},
		{"inventory.csv", "", false},
	}

	for _, tt := range tests {
		entity, ok := RouteFile(tt.name)
		if entity != tt.entity || ok != tt.ok {
			t.Errorf("RouteFile(%q) = %q/%v, want %q/%v", tt.name, entity, ok, tt.entity, tt.ok)
		}
	}
}

func newTestOrchestrator(t *testing.T, stores Stores) (*Orchestrator, string, string, string) {
	t.Helper()
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	errorsDir := t.TempDir()

	reader := NewReader(inputDir)
	loader := NewLoader(stores, nil)
	reporter := NewReporter(outputDir, errorsDir, nil)
	o := NewOrchestrator(reader, loader, reporter, DefaultMappings(), outputDir, nil)
	return o, inputDir, outputDir, errorsDir
}

func TestOrchestrator_RunBatch(t *testing.T) {
	stores := newFakeStores()
	o, inputDir, outputDir, errorsDir := newTestOrchestrator(t, stores)

	customers := "Full Name,Email,Phone,Address\n" +
		"Alice Smith,alice@example.com,+7 900 123-45-67,1 Main St\n" +
		"No Email,,+7 900 111-22-33,2 Oak Ave\n" +
		"Bob Jones,bob@example.com,+7 900 765-43-21,3 Pine Rd\n"
	writeFile(t, inputDir, "customers.csv", []byte(customers))

	products := "Name,SKU,Weight,Category,Price\n" +
		"Widget,WDG-001,0.5,Electronics,19.99\n"
	writeFile(t, inputDir, "products.csv", []byte(products))

	orders := "Customer Email,Delivery Address,Payment Method,Quantity,Unit Price\n" +
		"alice@example.com,1 Main St,CASH,3,19.99\n" +
		"ghost@example.com,9 Void Ln,CASH,1,5.00\n"
	writeFile(t, inputDir, "orders.csv", []byte(orders))

	// Unroutable files are skipped, not fatal.
	writeFile(t, inputDir, "inventory.csv", []byte("whatever\n"))

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	cs := report.Statistics[EntityCustomers]
	if cs == nil {
		t.Fatal("no customer statistics")
	}
	if cs.TotalProcessed != 3 || cs.Valid != 2 || cs.Rejected != 1 || cs.Created != 2 {
		t.Errorf("customers: %+v", cs)
	}
	if cs.Valid+cs.Rejected != cs.TotalProcessed {
		t.Error("customer counters do not add up")
	}

	ps := report.Statistics[EntityProducts]
	if ps == nil || ps.Created != 1 || ps.Rejected != 0 {
		t.Errorf("products: %+v", ps)
	}

	// The ghost order fails referential resolution; Alice's succeeds because
	// customers load before orders in the same run.
	ost := report.Statistics[EntityOrders]
	if ost == nil || ost.TotalProcessed != 2 || ost.Valid != 1 || ost.Rejected != 1 || ost.Created != 1 {
		t.Errorf("orders: %+v", ost)
	}

	if report.Summary.TotalProcessed != 6 {
		t.Errorf("summary total = %d, want 6", report.Summary.TotalProcessed)
	}
	// 4 valid of 6 processed.
	if report.Summary.SuccessRate != 66.67 {
		t.Errorf("success rate = %v, want 66.67", report.Summary.SuccessRate)
	}

	if o.Status() != StateIdle {
		t.Errorf("state = %q, want idle after run", o.Status())
	}

	assertReportWritten(t, outputDir, report)
	assertErrorArtifacts(t, errorsDir)
}

func assertReportWritten(t *testing.T, outputDir string, report RunReport) {
	t.Helper()
	path := filepath.Join(outputDir, "etl_report_"+report.Timestamp+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("run report not written: %v", err)
	}
	var onDisk RunReport
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("run report not valid JSON: %v", err)
	}
	if onDisk.Summary.TotalProcessed != report.Summary.TotalProcessed {
		t.Errorf("on-disk summary differs: %+v", onDisk.Summary)
	}
}

func assertErrorArtifacts(t *testing.T, errorsDir string) {
	t.Helper()
	entries, err := os.ReadDir(errorsDir)
	if err != nil {
		t.Fatal(err)
	}

	var haveCustomerCSV, haveOrderJSON bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "customers_errors_") && strings.HasSuffix(e.Name(), ".csv") {
			haveCustomerCSV = true
			data, err := os.ReadFile(filepath.Join(errorsDir, e.Name()))
			if err != nil {
				t.Fatal(err)
			}
			content := string(data)
			// Original values plus the violation column survive into the artifact.
			if !strings.Contains(content, "No Email") || !strings.Contains(content, "missing required fields") {
				t.Errorf("customer error artifact lacks original values:\n%s", content)
			}
		}
		if strings.HasPrefix(e.Name(), "orders_errors_") && strings.HasSuffix(e.Name(), ".json") {
			haveOrderJSON = true
			data, err := os.ReadFile(filepath.Join(errorsDir, e.Name()))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), "customer not found: ghost@example.com") {
				t.Errorf("order error artifact lacks violation:\n%s", data)
			}
		}
	}
	if !haveCustomerCSV {
		t.Error("customer error CSV not written")
	}
	if !haveOrderJSON {
		t.Error("order error JSON not written")
	}
}

func TestOrchestrator_WholeFileErrorContinuesRun(t *testing.T) {
	stores := newFakeStores()
	o, inputDir, _, _ := newTestOrchestrator(t, stores)

	// customers file exists, orders file is referenced but missing from disk.
	writeFile(t, inputDir, "customers.csv", []byte(
		"Full Name,Email,Phone,Address\nAlice,alice@example.com,+7 900 123-45-67,1 Main St\n"))

	report, err := o.RunFile(context.Background(), "missing_orders.csv", EntityOrders)
	if err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}

	ost := report.Statistics[EntityOrders]
	if ost == nil {
		t.Fatal("missing file produced no statistics entry")
	}
	if len(ost.FileErrors) == 0 {
		t.Error("file error not recorded")
	}
	if ost.TotalProcessed != 0 {
		t.Errorf("processed = %d, want 0 for whole-file error", ost.TotalProcessed)
	}
}

func TestOrchestrator_RunFileWithHint(t *testing.T) {
	stores := newFakeStores()
	o, inputDir, _, _ := newTestOrchestrator(t, stores)

	// Filename gives no routing clue; the hint decides.
	writeFile(t, inputDir, "upload_ab12.csv", []byte(
		"Full Name,Email,Phone,Address\nAlice,alice@example.com,+7 900 123-45-67,1 Main St\n"))

	report, err := o.RunFile(context.Background(), "upload_ab12.csv", EntityCustomers)
	if err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if cs := report.Statistics[EntityCustomers]; cs == nil || cs.Created != 1 {
		t.Errorf("customers: %+v", report.Statistics[EntityCustomers])
	}

	_, err = o.RunFile(context.Background(), "upload_ab12.csv", EntityAuto)
	if err == nil {
		t.Error("RunFile with auto hint and unroutable name should fail")
	}
}

func TestOrchestrator_IdentityMapResetBetweenRuns(t *testing.T) {
	stores := newFakeStores()
	o, inputDir, _, _ := newTestOrchestrator(t, stores)

	writeFile(t, inputDir, "customers.csv", []byte(
		"Full Name,Email,Phone,Address\nAlice,alice@example.com,+7 900 123-45-67,1 Main St\n"))
	writeFile(t, inputDir, "orders.csv", []byte(
		"Customer Email,Delivery Address,Payment Method,Total Amount\nalice@example.com,1 Main St,CASH,10\n"))

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Second run: the customer row is skipped as a duplicate but still
	// registers in the fresh identity map, so the order resolves again.
	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	ost := report.Statistics[EntityOrders]
	if ost == nil || ost.Rejected != 0 || ost.Created != 1 {
		t.Errorf("orders after second run: %+v", ost)
	}
	cs := report.Statistics[EntityCustomers]
	if cs == nil || cs.Skipped != 1 || cs.Created != 0 {
		t.Errorf("customers after second run: %+v", cs)
	}
}
