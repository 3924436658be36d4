package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

// Instance 局域网内发现的服务实例
type Instance struct {
	Name     string            `json:"name"`
	HostName string            `json:"host_name"`
	Port     int               `json:"port"`
	IPs      []string          `json:"ips"`
	Txt      map[string]string `json:"txt"`
}

// Endpoint 第一个 IPv4 地址拼接端口
func (i Instance) Endpoint() string {
	if len(i.IPs) == 0 {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", i.IPs[0], i.Port)
}

// Browse 在 timeout 内收集广播的实例，按名称排序
func Browse(ctx context.Context, timeout time.Duration) ([]Instance, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	collected := make(chan []Instance, 1)
	go func() {
		var found []Instance
		for entry := range entries {
			if inst, ok := toInstance(entry); ok {
				found = append(found, inst)
			}
		}
		collected <- found
	}()

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := resolver.Browse(browseCtx, ServiceType, Domain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse services: %w", err)
	}
	<-browseCtx.Done()

	var found []Instance
	select {
	case found = <-collected:
	case <-time.After(time.Second):
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

func toInstance(entry *zeroconf.ServiceEntry) (Instance, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return Instance{}, false
	}
	inst := Instance{
		Name:     entry.Instance,
		HostName: entry.HostName,
		Port:     entry.Port,
		Txt:      ParseTxt(entry.Text),
	}
	for _, ip := range entry.AddrIPv4 {
		inst.IPs = append(inst.IPs, ip.String())
	}
	return inst, true
}

// ParseTxt 解析 key=value 形式的 TXT 记录
func ParseTxt(records []string) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		key, value, _ := strings.Cut(r, "=")
		if key != "" {
			out[key] = value
		}
	}
	return out
}
