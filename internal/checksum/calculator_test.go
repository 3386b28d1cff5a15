package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256Calculator_CalculateRaw(t *testing.T) {
	calc := New()

	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", calc.CalculateRaw(nil))

	a := calc.CalculateRaw([]byte("SELECT * FROM users;"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, calc.CalculateRaw([]byte("SELECT * FROM users;")))
	assert.NotEqual(t, a, calc.CalculateRaw([]byte("SELECT  *  FROM users;")))
}

func TestSHA256Calculator_Normalization_Equivalent(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		variants []string
	}{
		{
			name: "Single-line comments",
			variants: []string{
				"SELECT * FROM users;",
				"-- This is a comment\nSELECT * FROM users;",
				"SELECT * FROM users; -- trailing comment",
			},
		},
		{
			name: "Block comments",
			variants: []string{
				"SELECT * FROM users;",
				"/* Comment */SELECT * FROM users;",
				"/* Multi\nline\ncomment */SELECT * FROM users;",
			},
		},
		{
			name: "Case and whitespace",
			variants: []string{
				"INSERT INTO users (id) VALUES ('a');",
				"insert into USERS (ID) values ('a');",
				"\n\n  INSERT\t\tINTO\n\nusers\n(id)\r\nVALUES ('a');  \n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := calc.CalculateNormalized([]byte(tt.variants[0]))
			for i, content := range tt.variants[1:] {
				assert.Equal(t, base, calc.CalculateNormalized([]byte(content)), "variant %d: %q", i+1, content)
			}
		})
	}
}

func TestSHA256Calculator_Normalization_LiteralsPreserved(t *testing.T) {
	calc := New()

	tests := []struct {
		name string
		a, b string
	}{
		{"case inside literal", "VALUES ('Doe')", "VALUES ('doe')"},
		{"comment-like text in literal", "SELECT '-- x' FROM t;", "SELECT '' FROM t;"},
		{"dollar quote", "SELECT $$ -- inside $$ FROM t;", "SELECT $$  $$ FROM t;"},
		{"whitespace inside literal", "VALUES ('a  b')", "VALUES ('a b')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, calc.CalculateNormalized([]byte(tt.a)), calc.CalculateNormalized([]byte(tt.b)))
		})
	}
}

func TestSHA256Calculator_normalize(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercase conversion", "SELECT * FROM USERS;", "select * from users;"},
		{"Comment removal", "SELECT /* comment */ * FROM users; -- comment", "select * from users;"},
		{"Whitespace collapse", "SELECT  \t\n  *  \n  FROM   users;", "select * from users;"},
		{"Literal kept", "INSERT INTO T VALUES ('User-1', NOW());", "insert into t values ('User-1', now());"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.normalize(tt.input))
		})
	}
}

func TestSHA256Calculator_RawVsNormalized_ShouldDiffer(t *testing.T) {
	calc := New()
	content := []byte("SELECT * FROM users; -- comment")
	assert.NotEqual(t, calc.CalculateRaw(content), calc.CalculateNormalized(content))
}

func BenchmarkSHA256Calculator_CalculateNormalized(b *testing.B) {
	calc := New()
	content := []byte("-- seed\nINSERT INTO users (id, email) VALUES\n  ('user-1', 'a@example.com'),\n  ('user-2', 'b@example.com');\n")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.CalculateNormalized(content)
	}
}
