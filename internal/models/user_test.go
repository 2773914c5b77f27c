package models

import (
	"reflect"
	"testing"
)

func TestNewUser(t *testing.T) {
	type args struct {
		username       string
		hashedPassword string
	}
	tests := []struct {
		name string
		args args
		want *User
	}{
		{
			name: "Create new user with valid username and hash",
			args: args{
				username:       "testuser",
				hashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
			},
			want: &User{
				ID:             "", // ID is left empty for the database to populate
				Username:       "testuser",
				HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
			},
		},
		{
			name: "Create new user with empty username and hash",
			args: args{
				username:       "",
				hashedPassword: "",
			},
			want: &User{
				ID:             "",
				Username:       "",
				HashedPassword: "",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewUser(tt.args.username, tt.args.hashedPassword); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewUser() = %v, want %v", got, tt.want)
			}
		})
	}
}
