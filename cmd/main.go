package main

import (
	"github.com/sellerdesk/crm-svc/internal/app"
	"github.com/sellerdesk/crm-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
