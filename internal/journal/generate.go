package journal

// Regenerate schema.sql after changing a migration:
//   go generate ./internal/journal

//go:generate sh -c "cd ../.. && go run internal/journal/tools/generate_schema.go"
