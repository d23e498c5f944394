package main

import (
	"context"
	"fmt"

	"github.com/msh-shiplu/GEM/internal/config"
	"github.com/msh-shiplu/GEM/internal/domain"
)

func (a *app) cmdConnect(ctx context.Context) error {
	if a.env.Config.NameServer == "" {
		return a.cmdServer(nil)
	}
	server, err := a.svc.Connect(ctx)
	if err != nil {
		return err
	}
	a.env.Success("Connected to server at %s", server)
	return nil
}

func (a *app) cmdServer(args []string) error {
	addr := ""
	if len(args) > 0 {
		addr = args[0]
	} else {
		addr = a.env.Prompt("Set server address", a.env.Config.Server)
	}
	if err := a.env.Config.SetServer(addr); err != nil {
		return err
	}
	if err := a.env.Save(); err != nil {
		return err
	}
	a.env.Success("Server set to %s", a.env.Config.Server)
	return nil
}

func (a *app) cmdFolder(args []string) error {
	folder := ""
	if len(args) > 0 {
		folder = args[0]
	} else {
		def := a.env.Config.Folder
		if def == "" {
			def = config.DefaultFolder(domain.RoleTeacher)
		}
		folder = a.env.Prompt("Folder for working files", def)
	}

	existed, err := a.env.Config.SetFolder(folder)
	if err != nil {
		return err
	}
	if err := a.env.Save(); err != nil {
		return err
	}
	if existed {
		a.env.Notice("Folder exists. Will use it to store working files.")
	}
	a.env.Success("Working folder set to %s", a.env.Config.Folder)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		label := "Enter assigned id"
		if a.env.Config.Name != "" {
			label = fmt.Sprintf("%s is already registered. Enter assigned id", a.env.Config.Name)
		}
		name = a.env.Prompt(label, a.env.Config.Name)
	}

	reg, err := a.svc.CompleteRegistration(ctx, name)
	if err != nil {
		return err
	}
	a.env.Success("%s registered for %s", a.env.Config.Name, reg.CourseID)
	if reg.NameServer != "" {
		a.env.Info("Name server: %s", reg.NameServer)
	}
	return nil
}

func (a *app) cmdTest(ctx context.Context) error {
	if err := a.connected(ctx); err != nil {
		return err
	}
	reply, err := a.svc.Test(ctx)
	if err != nil {
		return err
	}
	a.env.Success("%s", reply)
	return nil
}
