package internal

import (
	"context"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartContainer runs request until port is listening and returns the "host:port" the port is
// mapped to on this machine. The teardown terminates the container.
func StartContainer(ctx context.Context, request testcontainers.ContainerRequest, port nat.Port) (string, func(), error) {
	request.ExposedPorts = append(request.ExposedPorts, string(port))
	if request.WaitingFor == nil {
		request.WaitingFor = wait.ForListeningPort(port)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	if err != nil {
		return "", nil, err
	}

	teardown := func() {
		if err := container.Terminate(ctx); err != nil {
			panic(err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		teardown()
		return "", nil, err
	}

	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		teardown()
		return "", nil, err
	}

	return fmt.Sprintf("%s:%s", host, mapped.Port()), teardown, nil
}
