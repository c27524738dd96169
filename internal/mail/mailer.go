// Package mail 联络表单的外发邮件转发
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Relay struct {
	host     string
	port     int
	username string
	password string
	to       string
}

func NewRelay(host string, port int, username, password, to string) *Relay {
	return &Relay{host: host, port: port, username: username, password: password, to: to}
}

// Send 同步转发一封邮件到固定收件箱，失败由调用方决定是否上抛
func (r *Relay) Send(name, email, phone, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", r.username)
	m.SetHeader("To", r.to)
	m.SetHeader("Subject", "New Message")
	m.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nMessage: %s\n", name, email, phone, message))

	d := gomail.NewDialer(r.host, r.port, r.username, r.password)
	return d.DialAndSend(m)
}
