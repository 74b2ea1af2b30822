package generator

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/bwmarrin/snowflake"
)

func IDbyIP(ip string) uint32 {
	var id uint32
	binary.Read(bytes.NewBuffer(net.ParseIP(ip).To4()), binary.BigEndian, &id)
	return id
}

// NewNode 根据本机 IP 生成 snowflake 节点，节点号取 IP 低 10 位
func NewNode(ip string) (*snowflake.Node, error) {
	id := int64(IDbyIP(ip)) & ((1 << snowflake.NodeBits) - 1)
	node, err := snowflake.NewNode(id)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", id, err)
	}
	return node, nil
}

// LocalIP 第一个非回环的 IPv4 地址，找不到时返回 127.0.0.1
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ip := ipnet.IP.To4(); ip != nil {
				return ip.String()
			}
		}
	}
	return "127.0.0.1"
}
